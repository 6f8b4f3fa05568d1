package natssink

import (
	"testing"
	"time"
)

func TestConfigureDecodesOverridesOverDefaults(t *testing.T) {
	p := New()
	err := p.Configure(map[string]interface{}{
		"subject":         "custom.subject",
		"max_retries":     3,
		"connect_timeout": 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if p.cfg.Subject != "custom.subject" {
		t.Fatalf("expected subject override, got %q", p.cfg.Subject)
	}
	if p.cfg.MaxRetries != 3 {
		t.Fatalf("expected max_retries override, got %d", p.cfg.MaxRetries)
	}
	if p.cfg.ConnectTimeout != 2*time.Second {
		t.Fatalf("expected connect_timeout override, got %v", p.cfg.ConnectTimeout)
	}
}

func TestConfigureLeavesUnsetFieldsAtDefault(t *testing.T) {
	p := New()
	if err := p.Configure(map[string]interface{}{"subject": "only.this"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if p.cfg.MaxRetries != defaultConfig().MaxRetries {
		t.Fatalf("expected unset max_retries to keep its default")
	}
}

func TestNameAndVersion(t *testing.T) {
	p := New()
	if p.Name() != "nats" {
		t.Fatalf("expected name %q, got %q", "nats", p.Name())
	}
	if p.Version() == "" {
		t.Fatalf("expected a non-empty version string")
	}
}

// Package natssink is a SinkPlugin publishing (site, message) pairs to
// a NATS subject, with reconnect/publish retry handled by
// cenkalti/backoff instead of a hand-rolled retry loop.
package natssink

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/nats-io/nats.go"

	"github.com/AlexanderHaase/dynalog/pkg/dynalog"
	"github.com/AlexanderHaase/dynalog/pkg/message"
)

// Config is the decoded shape of the plugin's runtime configuration.
// Token is typically sourced from vaultcreds.NATSCredentials rather than
// hand-configured, so an operator never puts a live credential in a
// config file.
type Config struct {
	URL            string        `mapstructure:"url"`
	Subject        string        `mapstructure:"subject"`
	Token          string        `mapstructure:"token"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

func defaultConfig() Config {
	return Config{
		URL:            nats.DefaultURL,
		Subject:        "dynalog",
		ConnectTimeout: 5 * time.Second,
		MaxRetries:     5,
	}
}

// Plugin implements plugins.SinkPlugin for NATS-backed sinks.
type Plugin struct {
	cfg  Config
	conn *nats.Conn
}

// New returns an unconfigured Plugin, suitable for registration with a
// plugins.Manager under the name "nats".
func New() *Plugin { return &Plugin{cfg: defaultConfig()} }

func (p *Plugin) Name() string    { return "nats" }
func (p *Plugin) Version() string { return "1.0.0" }

// Configure decodes config into a Config via mapstructure, leaving any
// field the caller didn't set at its default.
func (p *Plugin) Configure(config map[string]interface{}) error {
	cfg := defaultConfig()
	if err := mapstructure.Decode(config, &cfg); err != nil {
		return fmt.Errorf("dynalog: decode nats sink config: %w", err)
	}
	p.cfg = cfg
	return nil
}

// NewSink connects to NATS with exponential-backoff retry and returns a
// sink that publishes to the configured subject.
func (p *Plugin) NewSink() (dynalog.Sink, error) {
	var conn *nats.Conn
	opts := []nats.Option{nats.Timeout(p.cfg.ConnectTimeout)}
	if p.cfg.Token != "" {
		opts = append(opts, nats.Token(p.cfg.Token))
	}
	connect := func() error {
		c, err := nats.Connect(p.cfg.URL, opts...)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(p.cfg.MaxRetries))
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, fmt.Errorf("dynalog: connect to nats at %s: %w", p.cfg.URL, err)
	}

	return &Sink{conn: conn, subject: p.cfg.Subject, maxRetries: p.cfg.MaxRetries}, nil
}

// Shutdown drains and closes the plugin's own connection, if any. Sinks
// already handed out via NewSink own their own connections and are not
// affected.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// Sink publishes each message's serialized form to a NATS subject.
// Publish failures are retried with exponential backoff; a failure that
// survives every retry is reported as a single diagnostic line on
// stderr, matching every other sink's error contract — the producing
// call is never informed.
type Sink struct {
	conn       *nats.Conn
	subject    string
	maxRetries int
}

func (s *Sink) Emit(site *dynalog.Site, msg *message.Message) {
	payload := []byte(msg.String())
	publish := func() error {
		return s.conn.Publish(s.subject, payload)
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.maxRetries))
	if err := backoff.Retry(publish, policy); err != nil {
		fmt.Fprintf(os.Stderr, "dynalog: nats sink: publish to %s failed: %v\n", s.subject, err)
	}
}

// Close drains and closes the sink's own connection.
func (s *Sink) Close() error {
	return s.conn.Drain()
}

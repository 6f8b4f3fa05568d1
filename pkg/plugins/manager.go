package plugins

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/AlexanderHaase/dynalog/pkg/dynalog"
)

// Factory builds a fresh, unconfigured SinkPlugin instance.
type Factory func() SinkPlugin

// Manager registers plugin factories by name, configures and
// instantiates plugins on demand, and tracks every plugin it has
// configured so Shutdown can release them all together.
type Manager struct {
	mu        sync.RWMutex
	factories map[string]Factory
	active    map[string]SinkPlugin
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		factories: make(map[string]Factory),
		active:    make(map[string]SinkPlugin),
	}
}

// Register adds a named plugin factory. Registering the same name twice
// replaces the previous factory.
func (m *Manager) Register(name string, f Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[name] = f
}

// NewSink configures and instantiates the named plugin's sink. The
// plugin instance is retained so Shutdown can later call its Shutdown
// method.
func (m *Manager) NewSink(name string, config map[string]interface{}) (dynalog.Sink, error) {
	m.mu.Lock()
	factory, ok := m.factories[name]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("dynalog: plugin %q not registered", name)
	}
	p := factory()
	m.active[pluginKey(name, len(m.active))] = p
	m.mu.Unlock()

	if err := p.Configure(config); err != nil {
		return nil, fmt.Errorf("dynalog: configure plugin %q: %w", name, err)
	}
	sink, err := p.NewSink()
	if err != nil {
		return nil, fmt.Errorf("dynalog: construct sink from plugin %q: %w", name, err)
	}
	return sink, nil
}

func pluginKey(name string, n int) string {
	return fmt.Sprintf("%s#%d", name, n)
}

// Shutdown calls Shutdown on every plugin instance this manager has
// configured, aggregating failures with hashicorp/go-multierror instead
// of stopping at the first one so a single slow or broken plugin cannot
// prevent the others from releasing their resources.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	instances := make([]SinkPlugin, 0, len(m.active))
	for _, p := range m.active {
		instances = append(instances, p)
	}
	m.active = make(map[string]SinkPlugin)
	m.mu.Unlock()

	var result *multierror.Error
	for _, p := range instances {
		if err := p.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("plugin %q: %w", p.Name(), err))
		}
	}
	return result.ErrorOrNil()
}

// Package plugins provides a registry and lifecycle manager for
// dynalog.Sink implementations that are constructed from untyped
// configuration at runtime, scoped to sinks since formatters, filters,
// and on-disk backends are outside the core's concerns.
package plugins

import (
	"context"

	"github.com/AlexanderHaase/dynalog/pkg/dynalog"
)

// SinkPlugin is a named, versioned factory for a dynalog.Sink, built
// from a map of untyped configuration decoded via mitchellh/mapstructure
// into whatever options struct the plugin actually wants.
type SinkPlugin interface {
	// Name identifies the plugin for registration and error messages.
	Name() string

	// Version reports the plugin's own version string.
	Version() string

	// Configure decodes raw configuration and applies it. Called once,
	// before NewSink.
	Configure(config map[string]interface{}) error

	// NewSink constructs the sink. May be called more than once to
	// produce independent sink instances from the same configuration.
	NewSink() (dynalog.Sink, error)

	// Shutdown releases any resources the plugin itself owns (distinct
	// from sinks it has already handed out, which the caller owns).
	Shutdown(ctx context.Context) error
}

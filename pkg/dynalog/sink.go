package dynalog

import (
	"github.com/AlexanderHaase/dynalog/pkg/message"
)

// Sink accepts (site, message) pairs. A concrete sink (standard-output
// writer, file, deferred queue, network publisher) implements this.
type Sink interface {
	Emit(site *Site, msg *message.Message)
}

// bootstrapSink is the initial sink of every site. On a site's first-ever
// invocation it registers the site with the global engine, then
// re-checks the message's captured level (if any) against the mask the
// engine just installed before delegating to the real sink. This lets a
// policy installed before a site's first call take effect on that very
// first call, even though the macro-expanded record was statically
// initialized long before any policy existed.
type bootstrapSink struct{}

var bootstrap = &bootstrapSink{}

// Bootstrap returns the process-wide bootstrap sink singleton.
func Bootstrap() Sink { return bootstrap }

func (b *bootstrapSink) Emit(site *Site, msg *message.Message) {
	site.registerOnBootstrap(func() {
		Global().InsertSite(site)
	})

	if lvl, ok := msg.Level0(); ok {
		if !site.Mask().Has(lvl) {
			return
		}
	}

	sink := site.Sink()
	if sink == nil || sink == b {
		// Nothing claimed the site; it stays on the bootstrap sink and
		// the message is dropped.
		return
	}
	sink.Emit(site, msg)
}

package dispatch

import (
	"github.com/AlexanderHaase/dynalog/internal/atomicutil"
	"github.com/AlexanderHaase/dynalog/pkg/dynalog"
	"github.com/AlexanderHaase/dynalog/pkg/message"
)

// item is one queued (sink, site, message) triple, or a flush token
// standing in for one. A reader head recognizes a flush token by its
// non-nil flush field and releases it instead of calling the receive
// function.
type item struct {
	sink  dynalog.Sink
	site  *dynalog.Site
	msg   *message.Message
	flush *atomicutil.Countdown
}

// ReceiveFunc is applied to every dequeued (site, sink, message) triple
// by a reader head. EmitReceiver, which simply calls sink.Emit, is the
// receiver every Dispatcher uses unless told otherwise.
type ReceiveFunc func(site *dynalog.Site, sink dynalog.Sink, msg *message.Message)

// EmitReceiver delivers an item to its sink.
func EmitReceiver(site *dynalog.Site, sink dynalog.Sink, msg *message.Message) {
	sink.Emit(site, msg)
}

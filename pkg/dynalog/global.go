package dynalog

import (
	"fmt"
	"runtime"
	"sync"
)

var (
	globalOnce   sync.Once
	globalEngine *Engine
)

// Global returns the process-wide configuration engine. It is published
// behind a one-time initializer so that it, and the bootstrap sink it
// cooperates with, are safely readable from any goroutine regardless of
// which call site or policy registration happens first.
func Global() *Engine {
	globalOnce.Do(func() {
		globalEngine = NewEngine()
	})
	return globalEngine
}

// NewCallSite is the Go analogue of the call-site macro: it captures the
// caller's file:line and enclosing function signature the way a macro
// expansion would at compile time, and returns a process-lifetime record
// suitable for assignment to a package-level variable, e.g.:
//
//	var requestSite = dynalog.NewCallSite("request")
//
//	func handle() {
//	    requestSite.Log(level.Info, "path=", r.URL.Path)
//	}
func NewCallSite(tag string) *Site {
	pc, file, line, ok := runtime.Caller(1)
	location := "<unknown>"
	context := "<unknown>"
	if ok {
		location = fmt.Sprintf("%s:%d", file, line)
		if fn := runtime.FuncForPC(pc); fn != nil {
			context = fn.Name()
		}
	}
	return NewSite(tag, location, context)
}

// NewCallSiteWithContext is the "implicit tag" variant: the enclosing
// function's signature is used as both the tag and the context string.
func NewCallSiteWithContext() *Site {
	pc, file, line, ok := runtime.Caller(1)
	location := "<unknown>"
	context := "<unknown>"
	if ok {
		location = fmt.Sprintf("%s:%d", file, line)
		if fn := runtime.FuncForPC(pc); fn != nil {
			context = fn.Name()
		}
	}
	return NewSite(context, location, context)
}

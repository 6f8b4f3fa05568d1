// Package dynalog provides the core of a runtime-reconfigurable logging
// library: call-site records cheap enough to leave compiled into
// production code, and a priority-ordered policy engine that rewrites
// which sites are enabled, at what level, and to which sink, without
// restarting the process.
//
// Basic usage:
//
//	var site = dynalog.NewCallSite("request")
//
//	func handle() {
//	    site.Log(level.Info, "path=", r.URL.Path)
//	}
//
//	func main() {
//	    eng := dynalog.Global()
//	    eng.InsertPolicy(0, policy.NewDefaultPolicy(sink.Stdout(), level.All))
//	}
//
// A disabled site costs one atomic load and one mask test. An enabled
// site formats its arguments into a message.Message and hands it to the
// site's current sink, which may write immediately or, via
// pkg/dispatch, hand off to a worker pool.
package dynalog

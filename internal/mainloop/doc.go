// Package mainloop runs the owner-thread event loop.
//
// The runtime designates one OS thread as the owner of top-level
// application control. Work that must happen there (surface access,
// script evaluation, config mutation) is posted from any goroutine and
// executed in order by Run on the owning goroutine:
//
//   - Post(fn) - Fire-and-forget, any goroutine
//   - PostAndWait(fn) - Blocks until fn has run; owner thread callers panic
//   - After(d, fn) - Deferred post
//   - Quit() - Ends Run after pending calls drain
//
// Run refuses to start on any thread other than the published owner
// thread. A heartbeat timestamp is refreshed every iteration so the
// stall monitor can detect a wedged loop.
package mainloop

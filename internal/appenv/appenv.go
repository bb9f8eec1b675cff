package appenv

import (
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// ProcessContext is the single per-process record of startup facts.
// All fields are set at construction and never mutated afterward, so
// concurrent readers need no synchronization once the value is published.
type ProcessContext struct {
	argc          int
	argv          []string
	ownerThreadID int
}

// current holds the published process context. atomic.Pointer gives the
// publication the release/acquire ordering late-started goroutines need
// to observe a fully constructed value.
var current atomic.Pointer[ProcessContext]

// NewProcessContext captures the invocation arguments and the kernel
// thread id of the calling thread. It must be called on the goroutine
// that owns top-level application control, after that goroutine has
// been pinned with runtime.LockOSThread; the captured id is what every
// later IsOnOwnerThread query compares against.
//
// The argv slice is retained as-is. The caller keeps ownership and must
// not mutate it for the lifetime of the process.
func NewProcessContext(argv []string) *ProcessContext {
	return &ProcessContext{
		argc:          len(argv),
		argv:          argv,
		ownerThreadID: unix.Gettid(),
	}
}

// ArgumentCount returns the number of invocation arguments.
func (pc *ProcessContext) ArgumentCount() int {
	return pc.argc
}

// Arguments returns the invocation arguments. The returned slice is the
// stored view; callers must treat it as read-only.
func (pc *ProcessContext) Arguments() []string {
	return pc.argv
}

// OwnerThreadID returns the kernel thread id captured at construction.
func (pc *ProcessContext) OwnerThreadID() int {
	return pc.ownerThreadID
}

// IsOnOwnerThread reports whether the calling goroutine is currently
// executing on the owning thread. Because the main goroutine is locked
// to its thread for the process lifetime, no other goroutine is ever
// scheduled there, so the comparison is exact and lock-free.
func (pc *ProcessContext) IsOnOwnerThread() bool {
	return unix.Gettid() == pc.ownerThreadID
}

// Publish makes pc the process-wide context. It must be called exactly
// once; a second call is a programming error and panics, matching the
// single-construction contract the rest of the runtime relies on.
func Publish(pc *ProcessContext) {
	if pc == nil {
		panic("appenv: Publish called with nil ProcessContext")
	}
	if !current.CompareAndSwap(nil, pc) {
		panic("appenv: ProcessContext already published")
	}
}

// Published reports whether a process context has been published.
func Published() bool {
	return current.Load() != nil
}

// Get returns the published process context. Calling Get before Publish
// is a programming error and panics.
func Get() *ProcessContext {
	pc := current.Load()
	if pc == nil {
		panic("appenv: ProcessContext not published")
	}
	return pc
}

// reset clears the published context. Tests only.
func reset() {
	current.Store(nil)
}

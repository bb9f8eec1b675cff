// Package appenv holds immutable process-wide startup facts: the raw
// invocation arguments and the identity of the OS thread that drives
// top-level application control.
//
// ProcessContext is constructed exactly once, at startup, on the main
// goroutine after it has been pinned with runtime.LockOSThread. Once
// published, every field is read-only, so any goroutine may query the
// record without locking:
//
//   - Arguments() / ArgumentCount() - Raw invocation arguments
//   - OwnerThreadID() - Kernel thread id captured at construction
//   - IsOnOwnerThread() - "Am I the main thread?" check
//
// Subsystems that are only safe on the owning thread (windowing,
// rendering surfaces, script evaluation) gate on IsOnOwnerThread.
package appenv

package mainloop

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gameshell/internal/appenv"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sys/unix"
)

// Call is a unit of work executed on the owner thread.
type Call func()

// heartbeatInterval bounds how stale the heartbeat gets on an idle loop.
const heartbeatInterval = 100 * time.Millisecond

// callQueueSize is the buffered backlog of pending cross-thread calls.
const callQueueSize = 256

// Loop executes posted calls on the goroutine that calls Run.
type Loop struct {
	calls     chan Call
	stopCh    chan struct{}
	quitOnce  sync.Once
	runnerTID atomic.Int64
	lastBeat  atomic.Int64
	tracer    trace.Tracer
}

// New creates a new Loop. A nil tracer disables span emission.
func New(tracer trace.Tracer) *Loop {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("mainloop")
	}
	return &Loop{
		calls:  make(chan Call, callQueueSize),
		stopCh: make(chan struct{}),
		tracer: tracer,
	}
}

// Post enqueues fn for execution on the owner thread. Safe to call from
// any goroutine. Calls posted after Quit are dropped.
func (l *Loop) Post(fn Call) {
	select {
	case l.calls <- fn:
	case <-l.stopCh:
	}
}

// PostAndWait enqueues fn and blocks until it has run. Calling it from
// the owner thread would deadlock, so that is a programming error and
// panics. If the loop stops before fn runs, PostAndWait returns without
// running it.
func (l *Loop) PostAndWait(fn Call) {
	if tid := l.runnerTID.Load(); tid != 0 && int64(unix.Gettid()) == tid {
		panic("mainloop: PostAndWait called from the owner thread")
	}

	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
	case <-l.stopCh:
	}
}

// After posts fn to the owner thread once d has elapsed.
func (l *Loop) After(d time.Duration, fn Call) {
	time.AfterFunc(d, func() {
		l.Post(fn)
	})
}

// Quit signals the loop to stop. Pending calls already in the queue are
// drained before Run returns. Safe to call more than once, from any
// goroutine.
func (l *Loop) Quit() {
	l.quitOnce.Do(func() {
		close(l.stopCh)
	})
}

// LastBeat returns the time the loop last reported progress.
func (l *Loop) LastBeat() time.Time {
	nanos := l.lastBeat.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// Run executes posted calls on the calling goroutine until the context
// is cancelled or Quit is called. Once a ProcessContext has been
// published, Run refuses to start anywhere but the owner thread.
func (l *Loop) Run(ctx context.Context) error {
	if appenv.Published() && !appenv.Get().IsOnOwnerThread() {
		return fmt.Errorf("mainloop: Run must be called on the owner thread")
	}

	//nolint:gosec // tid is a small positive kernel id
	l.runnerTID.Store(int64(unix.Gettid()))
	l.beat()

	ctx, span := l.tracer.Start(ctx, "mainloop.run")
	defer span.End()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.stopCh:
			l.drain()
			return nil
		case <-ticker.C:
			l.beat()
		case fn := <-l.calls:
			l.beat()
			fn()
			l.beat()
		}
	}
}

// drain runs calls that were already queued when Quit fired.
func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.calls:
			fn()
		default:
			return
		}
	}
}

func (l *Loop) beat() {
	l.lastBeat.Store(time.Now().UnixNano())
}

// Package stallmon watches the main loop heartbeat and reports when the
// owner thread stops making progress.
//
// A stalled owner thread is the classic cause of frame hitches and
// unresponsive windows; surfacing the stall with its duration makes the
// offending call findable in logs and traces.
package stallmon

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Monitor periodically compares the loop heartbeat against a threshold.
type Monitor struct {
	threshold time.Duration
	lastBeat  func() time.Time
	span      trace.Span
	stalls    atomic.Int64
	stalled   bool
}

// New creates a Monitor. lastBeat supplies the loop's most recent
// progress timestamp; span, when non-nil, receives a span event per
// detected stall.
func New(threshold time.Duration, lastBeat func() time.Time, span trace.Span) *Monitor {
	return &Monitor{
		threshold: threshold,
		lastBeat:  lastBeat,
		span:      span,
	}
}

// Start begins watching in a background goroutine until the context is
// cancelled.
func (m *Monitor) Start(ctx context.Context) {
	go m.watch(ctx)
}

// Stalls returns the number of stall episodes detected so far.
func (m *Monitor) Stalls() int {
	return int(m.stalls.Load())
}

// watch polls the heartbeat. A stall is reported once when entered and
// again only after the loop has recovered.
func (m *Monitor) watch(ctx context.Context) {
	interval := m.threshold / 4
	if interval < time.Millisecond {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(time.Now())
		}
	}
}

// check evaluates one heartbeat sample against the threshold.
func (m *Monitor) check(now time.Time) {
	beat := m.lastBeat()
	if beat.IsZero() {
		// Loop has not started yet.
		return
	}

	lag := now.Sub(beat)
	if lag <= m.threshold {
		m.stalled = false
		return
	}

	if m.stalled {
		// Still inside an already-reported episode.
		return
	}
	m.stalled = true
	m.stalls.Add(1)

	log.Printf("Main loop stalled for %v (threshold %v)", lag, m.threshold)
	if m.span != nil {
		m.span.AddEvent("mainloop.stall", trace.WithAttributes(
			attribute.Int64("stall.lag_ms", lag.Milliseconds()),
			attribute.Int64("stall.threshold_ms", m.threshold.Milliseconds()),
		))
	}
}

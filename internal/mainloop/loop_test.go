package mainloop

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startLoop runs l in the background and returns a wait function.
func startLoop(t *testing.T, l *Loop) func() {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		// Run's owner-thread detection assumes the runner goroutine is
		// pinned to its own OS thread, as cmd/gameshell does in init.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		done <- l.Run(context.Background())
	}()

	return func() {
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("loop did not stop")
		}
	}
}

func TestLoop_PostExecutesInOrder(t *testing.T) {
	l := New(nil)
	wait := startLoop(t, l)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 10; i++ {
		i := i
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}

	l.PostAndWait(func() {})
	l.Quit()
	wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestLoop_PostAndWaitBlocksUntilRun(t *testing.T) {
	l := New(nil)
	wait := startLoop(t, l)
	defer func() {
		l.Quit()
		wait()
	}()

	ran := false
	l.PostAndWait(func() {
		ran = true
	})

	assert.True(t, ran)
}

func TestLoop_PostAndWaitFromOwnerThreadPanics(t *testing.T) {
	l := New(nil)
	wait := startLoop(t, l)
	defer wait()

	l.PostAndWait(func() {
		assert.Panics(t, func() {
			l.PostAndWait(func() {})
		})
	})

	l.Quit()
}

func TestLoop_QuitDrainsPendingCalls(t *testing.T) {
	l := New(nil)

	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		l.Post(func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	l.Quit()

	// Run starts after Quit: the stop branch still drains the queue.
	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, 5, count)
}

func TestLoop_QuitIsIdempotent(t *testing.T) {
	l := New(nil)

	l.Quit()
	assert.NotPanics(t, func() {
		l.Quit()
	})
}

func TestLoop_PostAfterQuitIsDropped(t *testing.T) {
	l := New(nil)
	l.Quit()

	assert.NotPanics(t, func() {
		l.Post(func() {})
	})
}

func TestLoop_ContextCancelStopsRun(t *testing.T) {
	l := New(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		done <- l.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop on context cancel")
	}
}

func TestLoop_AfterFires(t *testing.T) {
	l := New(nil)
	wait := startLoop(t, l)

	fired := make(chan struct{})
	l.After(10*time.Millisecond, func() {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("deferred call never fired")
	}

	l.Quit()
	wait()
}

func TestLoop_HeartbeatAdvances(t *testing.T) {
	l := New(nil)

	assert.True(t, l.LastBeat().IsZero(), "no beat before Run")

	wait := startLoop(t, l)

	l.PostAndWait(func() {})
	first := l.LastBeat()
	require.False(t, first.IsZero())

	time.Sleep(2 * heartbeatInterval)
	assert.True(t, l.LastBeat().After(first), "idle loop should keep beating")

	l.Quit()
	wait()
}

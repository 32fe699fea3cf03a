package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wireproxy/gatewayd/internal/backend"
)

func TestScheduler_DefaultRunFuncExitsWhenHandlerStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, nil, nil)
	s.TickInterval = time.Millisecond

	h := backend.NewHandler(1, "a", "X", "b", "X")
	h.SetActive(true)
	h.SetRunning(true)

	s.Start(h)

	h.SetRunning(false)

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler task did not exit after handler stopped running")
	}
}

func TestScheduler_ContextCancelStopsTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := New(ctx, nil, nil)
	s.TickInterval = time.Millisecond

	h := backend.NewHandler(1, "a", "X", "b", "X")
	h.SetRunning(true)
	s.Start(h)

	cancel()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler task did not exit after context cancellation")
	}
}

func TestScheduler_CustomRunFunc(t *testing.T) {
	ctx := context.Background()

	var gotHandler *backend.Handler
	finished := make(chan struct{})
	run := func(ctx context.Context, h *backend.Handler, tick <-chan time.Time) {
		gotHandler = h
		close(finished)
	}

	s := New(ctx, run, nil)
	h := backend.NewHandler(7, "a", "X", "b", "X")
	s.Start(h)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("custom run func never called")
	}
	s.Wait()

	require.NotNil(t, gotHandler)
	assert.Equal(t, int64(7), gotHandler.ID)
}

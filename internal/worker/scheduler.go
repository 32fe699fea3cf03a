// Package worker models the external cooperative task scheduler the
// concurrency model names: one goroutine per running Handler, which
// observes the Handler's running flag going false at a cooperative
// tick and exits. Real socket I/O against a Handler's send/recv
// endpoints is out of scope (see spec §1's "messaging sockets"
// collaborator); HandlerRunFunc is the documented extension point a
// full request-serving build would replace.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wireproxy/gatewayd/internal/backend"
)

// HandlerRunFunc is the body of one Handler task. It must return
// promptly once h.IsRunning() goes false; tick fires periodically so
// an implementation with no other I/O to block on still gets a chance
// to check that without busy-looping.
type HandlerRunFunc func(ctx context.Context, h *backend.Handler, tick <-chan time.Time)

// DefaultRunFunc idles on tick and exits as soon as the handler is no
// longer running. It makes the scheduler exercisable and testable
// without a socket layer.
func DefaultRunFunc(ctx context.Context, h *backend.Handler, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if !h.IsRunning() {
				return
			}
		}
	}
}

// Scheduler implements registry.HandlerStarter: Start spawns one
// goroutine per Handler, running Run until the handler stops or ctx is
// cancelled. It tracks in-flight tasks so Wait can block for a clean
// shutdown.
type Scheduler struct {
	Run          HandlerRunFunc
	TickInterval time.Duration
	Logger       *zap.SugaredLogger

	// OnStart and OnStop, if set, are called as each task starts and
	// exits — the admin event bus wires these to publish lifecycle
	// events without this package importing internal/admin.
	OnStart func(h *backend.Handler)
	OnStop  func(h *backend.Handler)

	ctx context.Context
	wg  sync.WaitGroup
}

// New builds a Scheduler bound to ctx; every task it spawns is
// cancelled when ctx is done. A nil run defaults to DefaultRunFunc.
func New(ctx context.Context, run HandlerRunFunc, logger *zap.SugaredLogger) *Scheduler {
	if run == nil {
		run = DefaultRunFunc
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		Run:          run,
		TickInterval: 100 * time.Millisecond,
		Logger:       logger,
		ctx:          ctx,
	}
}

// Start spawns a task for h. It satisfies registry.HandlerStarter, so
// a Scheduler can be passed directly to Registry.StartHandlers.
func (s *Scheduler) Start(h *backend.Handler) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.Logger.Infow("handler task starting", "key", h.Key(), "send_spec", h.SendSpec)
		if s.OnStart != nil {
			s.OnStart(h)
		}

		ticker := time.NewTicker(s.TickInterval)
		defer ticker.Stop()

		s.Run(s.ctx, h, ticker.C)

		s.Logger.Infow("handler task exiting", "key", h.Key())
		if s.OnStop != nil {
			s.OnStop(h)
		}
	}()
}

// Wait blocks until every spawned task has returned. During shutdown
// callers first make the tasks exit — by cancelling the Scheduler's
// context, or by Registry.StopAll clearing each Handler's running flag,
// which a task observes at its next tick — and then call Wait.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

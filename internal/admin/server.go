// Package admin assembles the operational HTTP surface: liveness,
// Prometheus metrics, a JSON dump of the registry, a reload trigger,
// and a websocket stream of registry lifecycle events. Router
// assembly and graceful shutdown are grounded in the teacher's
// internal/server/server.go; the websocket stream is grounded in its
// internal/repl/wire/handler.go.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wireproxy/gatewayd/internal/backend"
	"github.com/wireproxy/gatewayd/internal/loader"
	"github.com/wireproxy/gatewayd/internal/metrics"
	"github.com/wireproxy/gatewayd/internal/registry"
)

// Config holds everything the admin server needs to register its
// routes and serve requests.
type Config struct {
	Addr            string
	UUID            string // identifies which server row Reload loads
	Registry        *registry.Registry
	Loader          *loader.Loader
	Starter         registry.HandlerStarter
	Metrics         *metrics.Collectors
	Prometheus      *prometheus.Registry
	MetricsEnabled  bool // whether to mount /metrics; collection happens regardless
	Bus             *Bus
	Logger          *zap.SugaredLogger
	ShutdownTimeout time.Duration // grace period for in-flight requests; 0 waits forever
}

// Server is the running admin HTTP plane.
type Server struct {
	cfg    Config
	http   *http.Server
	logger *zap.SugaredLogger
}

// New assembles the chi router and wraps it in an *http.Server. It
// does not start listening — call Run.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.Bus == nil {
		cfg.Bus = NewBus(256, logger)
	}

	s := &Server{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Prometheus, promhttp.HandlerOpts{}))
	}
	r.Get("/backends", s.handleBackends)
	r.Post("/reload", s.handleReload)
	r.Get("/admin/ws/events", s.handleEvents)

	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	return s
}

// Run starts the bus consumer and the HTTP listener, and blocks until
// ctx is cancelled, at which point it shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.cfg.Bus.Start(ctx)
	defer s.cfg.Bus.Stop()

	s.logger.Infow("admin server starting", "addr", s.http.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx := context.Background()
		if s.cfg.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.cfg.ShutdownTimeout)
			defer cancel()
		}
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type backendView struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Active  bool   `json:"active"`
	Running bool   `json:"running"`
}

func (s *Server) handleBackends(w http.ResponseWriter, r *http.Request) {
	views := make([]backendView, 0, s.cfg.Registry.Len())
	s.cfg.Registry.Traverse(func(e registry.Entry) {
		views = append(views, backendView{
			Key:     e.Key,
			Type:    string(e.Type),
			Active:  e.Backend.IsActive(),
			Running: e.Backend.IsRunning(),
		})
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		s.logger.Errorw("encoding backends response", "error", err)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	srv, err := s.Reload(r.Context())
	if err != nil {
		s.logger.Errorw("reload failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"uuid":       srv.UUID,
		"host_count": len(srv.Hosts),
	})
}

// Reload drives the Loader's reload sequence, updates metrics, and
// publishes a reload_completed event. Both the admin HTTP /reload
// endpoint and a SIGHUP delivered to the serving process (see
// cmd/gatewayd/serve.go) call this same path.
func (s *Server) Reload(ctx context.Context) (*backend.Server, error) {
	done := s.cfg.Metrics.TimeReload()
	srv, err := s.cfg.Loader.Reload(ctx, s.cfg.UUID, s.cfg.Starter)
	done()
	if err != nil {
		return nil, err
	}

	s.cfg.Metrics.Observe(s.cfg.Registry)
	s.cfg.Bus.Publish(Event{
		Type: EventReloadCompleted,
		Data: map[string]any{"uuid": srv.UUID, "host_count": len(srv.Hosts)},
	})
	return srv, nil
}

// PublishBackendStarted and PublishBackendStopped let the handler
// start/stop path (internal/worker.Scheduler) notify admin subscribers
// without importing the admin package; each builds the Event from the
// Handler's key and ID.
func (s *Server) PublishBackendStarted(h *backend.Handler) {
	s.cfg.Bus.Publish(Event{
		Type: EventBackendStarted,
		Data: map[string]any{"key": h.Key(), "id": h.ID},
	})
}

func (s *Server) PublishBackendStopped(h *backend.Handler) {
	s.cfg.Bus.Publish(Event{
		Type: EventBackendStopped,
		Data: map[string]any{"key": h.Key(), "id": h.ID},
	})
}

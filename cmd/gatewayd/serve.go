package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wireproxy/gatewayd/internal/admin"
	"github.com/wireproxy/gatewayd/internal/config"
	"github.com/wireproxy/gatewayd/internal/loader"
	"github.com/wireproxy/gatewayd/internal/logging"
	"github.com/wireproxy/gatewayd/internal/metrics"
	"github.com/wireproxy/gatewayd/internal/registry"
	"github.com/wireproxy/gatewayd/internal/store"
	"github.com/wireproxy/gatewayd/internal/worker"
)

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the configured server and serve the admin HTTP plane",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(loadConfig)
		},
	}
}

func runServe(loadConfig func() (*config.Config, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	zapLogger, err := logging.New(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	st.DB().SetMaxOpenConns(cfg.Store.MaxOpenConns)
	st.DB().SetMaxIdleConns(cfg.Store.MaxIdleConns)
	if cfg.Store.AutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	reg := registry.New()
	ld := loader.New(st, reg, logger)
	ld.StrictDuplicateServer = cfg.Loader.StrictDuplicateServer

	sched := worker.New(ctx, nil, logger)

	promReg := prometheus.NewRegistry()
	metricsCollectors := metrics.New(promReg)

	bus := admin.NewBus(256, logger)
	adminSrv := admin.New(admin.Config{
		Addr:            cfg.Admin.Addr,
		UUID:            cfg.App.UUID,
		Registry:        reg,
		Loader:          ld,
		Starter:         sched,
		Metrics:         metricsCollectors,
		Prometheus:      promReg,
		MetricsEnabled:  cfg.Metrics.Enabled,
		Bus:             bus,
		Logger:          logger,
		ShutdownTimeout: cfg.Admin.ShutdownTimeout,
	})
	sched.OnStart = adminSrv.PublishBackendStarted
	sched.OnStop = adminSrv.PublishBackendStopped

	if _, err := ld.Load(ctx, cfg.App.UUID); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	reg.StartHandlers(sched)
	metricsCollectors.Observe(reg)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go watchSIGHUP(ctx, hup, adminSrv, logger)

	logger.Infow("gatewayd starting", "admin_addr", cfg.Admin.Addr, "uuid", cfg.App.UUID)

	err = adminSrv.Run(ctx)

	reg.StopAll()
	sched.Wait()

	return err
}

// watchSIGHUP triggers an in-process reload on SIGHUP, the traditional
// "reread your configuration" signal — an alternative to posting to
// the admin /reload endpoint for operators managing gatewayd as a
// plain daemon. It exits once ctx is cancelled.
func watchSIGHUP(ctx context.Context, hup chan os.Signal, adminSrv *admin.Server, logger *zap.SugaredLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Infow("SIGHUP received, reloading")
			if _, err := adminSrv.Reload(ctx); err != nil {
				logger.Errorw("SIGHUP reload failed", "error", err)
			}
		}
	}
}

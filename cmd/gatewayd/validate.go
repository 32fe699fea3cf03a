package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wireproxy/gatewayd/internal/config"
	"github.com/wireproxy/gatewayd/internal/loader"
	"github.com/wireproxy/gatewayd/internal/registry"
	"github.com/wireproxy/gatewayd/internal/store"
)

func newValidateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configured server without starting it, reporting any integrity errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(loadConfig)
		},
	}
}

func runValidate(loadConfig func() (*config.Config, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if cfg.Store.AutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	ld := loader.New(st, registry.New(), nil)
	ld.StrictDuplicateServer = cfg.Loader.StrictDuplicateServer

	srv, err := ld.Load(ctx, cfg.App.UUID)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	fmt.Printf("configuration valid: server %q, %d host(s)\n", srv.UUID, len(srv.Hosts))
	return nil
}

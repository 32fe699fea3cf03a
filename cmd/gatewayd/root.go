package main

import (
	"github.com/spf13/cobra"

	"github.com/wireproxy/gatewayd/internal/config"
)

func newRootCmd() *cobra.Command {
	var cfgPaths []string

	root := &cobra.Command{
		Use:               "gatewayd",
		Short:             "Loads and serves a gateway configuration from a backing store",
		DisableAutoGenTag: true,
	}
	root.PersistentFlags().StringSliceVar(&cfgPaths, "config", nil,
		"path(s) to a gatewayd.yaml config file, tried in order")

	loadConfig := func() (*config.Config, error) {
		opts := []config.LoaderOption{}
		if len(cfgPaths) > 0 {
			opts = append(opts, config.WithConfigPaths(cfgPaths...))
		}
		return config.NewLoader(opts...).Load()
	}

	root.AddCommand(newServeCmd(loadConfig))
	root.AddCommand(newReloadCmd(loadConfig))
	root.AddCommand(newValidateCmd(loadConfig))
	return root
}

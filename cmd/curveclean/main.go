// Package main provides the CLI entry point for curveclean.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jungleai/curveclean-go/internal/config"
	"github.com/jungleai/curveclean-go/internal/logging"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

var (
	configPath string
	verbose    bool
	backend    string

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "curveclean",
		Short: "Interactive power-curve cleaning backend",
		Long: `curveclean keeps a power-curve cleaning chart in sync with the shared
key-value store: it loads sensor series, places draggable boundary markers
and saves every marker the user moves.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backend, "store", "", "Store backend: redis, badger, sqlite, memory (default from config)")

	rootCmd.AddCommand(serveCmd(), seedCmd(), exportCmd(), reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Store.Backend = backend
	}

	logger, err = logging.New(cfg.Logging, cfg.Debug || verbose)
	if err != nil {
		return err
	}
	return nil
}

func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	logger.Debug("store opened", zap.String("backend", cfg.Store.Backend))
	return st, nil
}

// requireFlags fails when any of the named flags was left empty.
func requireFlags(fs *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		f := fs.Lookup(name)
		if f == nil || f.Value.String() == "" {
			return fmt.Errorf("--%s is required", name)
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/fleetcost/internal/config"
	"github.com/rshade/fleetcost/internal/store"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fleetcost",
		Short:         "Fleet energy cost and emission calculator",
		Long:          `Compares the per-distance cost, carbon cost and emissions of the energies in a fleet catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCalculateCmd())
	cmd.AddCommand(newSeedCmd())
	return cmd
}

// loadConfig reads the environment and builds the process logger on stderr.
func loadConfig() (config.Config, zerolog.Logger, error) {
	bootstrap := config.NewLogger(os.Stderr, zerolog.InfoLevel, "json")
	cfg, err := config.Load(bootstrap)
	if err != nil {
		return config.Config{}, bootstrap, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat), nil
}

// openStore connects to PostgreSQL when a database URL is configured and
// falls back to the in-memory repository otherwise.
func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (store.Repository, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("no database configured, using in-memory catalog")
		return store.NewMemory(), nil
	}

	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

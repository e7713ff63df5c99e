package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/fleetcost/internal/seed"
)

var errNoStore = errors.New("no database configured; set FLEETCOST_DATABASE_URL to seed a persistent catalog")

func newSeedCmd() *cobra.Command {
	var (
		path      string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a seed document into the catalog database",
		Long: `Import energies, cost components and parameters from a seed document.

Without --overwrite energies and parameters are each written only when the
database holds none yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errNoStore
			}
			if path == "" {
				path = cfg.SeedPath
			}

			repo, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			report, err := seed.NewImporter(repo, logger).ApplyFile(cmd.Context(), path, overwrite)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Seed document (JSON or YAML); defaults to FLEETCOST_SEED_PATH")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing energies and parameters")
	return cmd
}

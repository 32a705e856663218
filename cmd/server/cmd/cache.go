package cmd

import (
	"fmt"

	"route-planning-service/internal/adapters/cache"

	"github.com/spf13/cobra"
)

func newCacheCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the geocode cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the geocode cache schema for the configured driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}

			switch cfg.Cache.Driver {
			case "sqlite", "postgres":
			default:
				logger.Info().Str("driver", cfg.Cache.Driver).Msg("no schema to initialize")
				return nil
			}

			conn, dialect, err := openSQL(cfg.Cache)
			if err != nil {
				return err
			}
			defer conn.Close()

			logger.Info().Str("dialect", string(dialect)).Msg("initializing geocode cache schema")
			if err := cache.InitSchema(cmd.Context(), conn, dialect); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			logger.Info().Msg("schema ready")
			return nil
		},
	})

	var seedPath string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Preload known addresses from a JSON file",
		Long: `Preload address -> coordinate pairs into the configured cache.

The file holds an array of {"address": "...", "lon": 77.6, "lat": 12.9} objects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}

			ctx := logger.WithContext(cmd.Context())
			c, closeCache, err := openCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("cache driver %q cannot be seeded", cfg.Cache.Driver)
			}
			defer closeCache()

			n, err := cache.SeedFromJSON(ctx, c, seedPath)
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			logger.Info().Int("entries", n).Str("file", seedPath).Msg("seeding complete")
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d addresses\n", n)
			return nil
		},
	}
	seed.Flags().StringVar(&seedPath, "file", "data/seeds/geocode.json", "seed file path")
	cmd.AddCommand(seed)

	return cmd
}

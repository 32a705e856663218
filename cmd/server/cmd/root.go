package cmd

import (
	"fmt"
	"os"

	"route-planning-service/internal/config"
	"route-planning-service/internal/platform/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd builds the routeplan command tree. Without a subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	serve := newServeCmd(flags)

	root := &cobra.Command{
		Use:   "routeplan",
		Short: "Route planning service: geocode, plan fastest and shortest routes, sync the map",
		Long: `routeplan resolves a start, a stop and optional waypoints to coordinates,
asks a routing provider for the fastest and the shortest route through them,
and keeps a map view in sync with the latest search.

Configuration comes from defaults, an optional YAML file (--config) and
ROUTEPLAN_* environment variables, e.g. ROUTEPLAN_PROVIDER__TOMTOM__API_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve.RunE(cmd, args)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (optional, uses env vars by default)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error) (default: info)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (json, console) (default: json)")

	root.AddCommand(serve)
	root.AddCommand(newRouteCmd(flags))
	root.AddCommand(newCacheCmd(flags))

	return root
}

// Execute runs the root command. It is called once by main.main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load reads configuration and applies logging flag overrides.
func (f *rootFlags) load() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("config error: %w", err)
	}

	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}

	return cfg, logging.New(cfg.Log), nil
}

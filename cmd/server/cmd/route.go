package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"route-planning-service/internal/api/dto"
	"route-planning-service/internal/domain"

	"github.com/spf13/cobra"
)

type routeOutput struct {
	dto.SearchResponse
	NavigateURL string `json:"navigate_url,omitempty"`
}

func newRouteCmd(flags *rootFlags) *cobra.Command {
	var (
		start     string
		stop      string
		waypoints []string
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Run one search and print both routes as JSON",
		Long: `Resolve the given addresses, plan the fastest and the shortest route and
print the result. Planning notices are written to stderr.

Example:
  routeplan route --start "MG Road, Bengaluru" --stop "Koramangala" \
    --waypoint "Indiranagar"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.SearchTimeout)
			defer cancel()
			ctx = logger.WithContext(ctx)

			a, err := buildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.coordinator.FindRoute(ctx, domain.SearchInput{
				Start:     start,
				Stop:      stop,
				Waypoints: &waypoints,
			})
			if err != nil {
				return err
			}

			for _, n := range report.Notices {
				fmt.Fprintf(cmd.ErrOrStderr(), "notice: %s %s: %s\n", n.Stage, n.Preference, n.Message)
			}

			out := routeOutput{SearchResponse: dto.Search(report)}
			url, err := a.coordinator.NavigationURL()
			switch {
			case err == nil:
				out.NavigateURL = url
			case errors.Is(err, domain.ErrRouteNotReady):
				fmt.Fprintf(cmd.ErrOrStderr(), "notice: %s: %v\n", domain.StageNavigate, err)
			default:
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start address")
	cmd.Flags().StringVar(&stop, "stop", "", "stop address")
	cmd.Flags().StringArrayVar(&waypoints, "waypoint", nil, "intermediate address, repeatable, visited in order")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("stop")

	return cmd
}

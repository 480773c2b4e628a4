package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only HTTP view of the dataset",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			ctx := cmd.Context()
			ds, err := a.dataset(ctx)
			if err != nil {
				return err
			}

			srv := server.New(a.cfg.Server, a.log)
			srv.ApplyMiddleware()
			srv.RegisterDataset(ds, a.cfg.Name, a.cfg.Version, a.healthCheckers()...)
			return srv.Run(ctx)
		}),
	}
}

func (a *app) healthCheckers() []observability.HealthChecker {
	checkers := []observability.HealthChecker{
		observability.HealthFunc(func(context.Context) observability.Health {
			stats := a.index.Stats()
			h := observability.Health{
				Name:   "corpus",
				Status: observability.HealthStatusUp,
				Details: map[string]string{
					"recordings": strconv.Itoa(stats.Recordings),
					"segments":   strconv.Itoa(stats.Segments),
					"speakers":   strconv.Itoa(stats.Speakers),
				},
			}
			if stats.Recordings == 0 {
				h.Status = observability.HealthStatusDegraded
				h.Message = "corpus has no recordings"
			}
			return h
		}),
	}
	if a.cache != nil {
		checkers = append(checkers, observability.HealthFunc(func(context.Context) observability.Health {
			stats := a.cache.Stats()
			return observability.Health{
				Name:   "decode_cache",
				Status: observability.HealthStatusUp,
				Details: map[string]string{
					"hits":   strconv.FormatInt(stats.Hits, 10),
					"misses": strconv.FormatInt(stats.Misses, 10),
					"len":    strconv.Itoa(stats.Len),
				},
			}
		}))
	}
	return checkers
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/speechkit/dataloader"
	"github.com/kbukum/speechkit/logger"
)

func newBatchesCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Iterate the dataloader once and report batch shapes",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			ctx := cmd.Context()
			ds, err := a.dataset(ctx)
			if err != nil {
				return err
			}
			loader, err := dataloader.New(ds, a.cfg.Loader,
				dataloader.WithCollator(ds.Config().Collator()),
				dataloader.WithLogger(a.log),
				dataloader.WithMetrics(a.metrics),
			)
			if err != nil {
				return err
			}

			it := loader.Batches(ctx)
			defer it.Close()

			out := cmd.OutOrStdout()
			start := time.Now()
			seen := 0
			for limit <= 0 || seen < limit {
				b, ok, err := it.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				rows, cols := b.Audio.Dims()
				fmt.Fprintf(out, "batch %d: %d items, audio %dx%d, width %d, lengths %v\n",
					b.Index, b.Size(), rows, cols, b.Width, b.LabelLengths)
				seen++
			}

			fields := logger.DurationFields("batches", time.Since(start))
			fields["batches"] = seen
			fields["planned"] = loader.NumBatches()
			if a.cache != nil {
				stats := a.cache.Stats()
				fields["cache_hits"] = stats.Hits
				fields["cache_misses"] = stats.Misses
			}
			a.log.Info("Dataloader pass complete", fields)
			fmt.Fprintf(out, "%d of %d batches\n", seen, loader.NumBatches())
			return nil
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after n batches (0 for all)")
	return cmd
}

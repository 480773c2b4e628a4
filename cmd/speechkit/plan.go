package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPlanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the chunk plan of every recording",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			ds, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}

			cfg := ds.Config()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RECORDING\tFRAMES\tCHUNKS\tSPEAKERS\tLENGTH FROM")
			for _, p := range ds.Plans() {
				from := "reco2dur"
				if p.Probed {
					from = "probe"
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
					p.Recording, p.FrameLength, p.Chunks, ds.Index().Speakers(p.Recording).Len(), from)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d chunks (chunk_size=%d step=%d subsampling=%d)\n",
				ds.Len(), cfg.ChunkSize, cfg.Step, cfg.Subsampling)
			return nil
		}),
	}
}

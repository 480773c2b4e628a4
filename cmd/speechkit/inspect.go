package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/speechkit/errors"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <index>",
		Short: "Load one chunk and print its per-speaker activity",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.InvalidInput("index", "must be an integer")
			}
			ds, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			item, err := ds.Get(cmd.Context(), i)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "chunk %d: %s frames [%d, %d), %d samples at %d Hz\n",
				i, item.Recording, item.Start, item.End, len(item.Audio), item.SampleRate)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLUMN\tSPEAKER\tACTIVE FRAMES")
			active := item.ActiveFrames()
			for col, n := range active {
				spk := "-"
				if col < len(item.Speakers) {
					spk = item.Speakers[col]
				}
				fmt.Fprintf(w, "%d\t%s\t%d/%d\n", col, spk, n, item.Frames())
			}
			return w.Flush()
		}),
	}
}

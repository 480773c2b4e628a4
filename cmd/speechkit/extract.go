package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/logger"
)

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "extract <out-dir>",
		Short: "Write every segment as a WAV file named after its utterance",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			outDir := args[0]
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			total := a.index.Stats().Segments
			output := cmd.ErrOrStderr()
			if quiet {
				output = nil
			}
			progress := mpb.NewWithContext(cmd.Context(), mpb.WithWidth(64), mpb.WithOutput(output))
			bar := progress.AddBar(int64(total),
				mpb.PrependDecorators(
					decor.Name("Extracting: "),
					decor.CountersNoUnit("%d / %d"),
				),
				mpb.AppendDecorators(
					decor.Percentage(),
					decor.AverageETA(decor.ET_STYLE_GO),
				),
			)

			written, err := extractSegments(cmd, a, outDir, bar)
			if err != nil {
				bar.Abort(false)
			} else {
				bar.SetTotal(-1, true)
			}
			progress.Wait()
			if err != nil {
				return err
			}
			a.log.Info("Segments extracted", logger.Fields("segments", written, "out_dir", outDir))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d segments to %s\n", written, outDir)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable the progress bar")
	return cmd
}

// extractSegments decodes each recording once and slices its segments by
// rounded sample offsets.
func extractSegments(cmd *cobra.Command, a *app, outDir string, bar *mpb.Bar) (int, error) {
	ctx := cmd.Context()
	written := 0
	for _, rec := range a.index.Recordings() {
		segs := a.index.Segments(rec)
		if len(segs) == 0 {
			continue
		}
		src, _ := a.index.Source(rec)
		clip, err := a.decoder.Decode(ctx, src, 0, -1)
		if err != nil {
			return written, err
		}
		rate := float64(clip.SampleRate)
		for _, seg := range segs {
			if err := ctx.Err(); err != nil {
				return written, err
			}
			start := int(math.RoundToEven(seg.Start * rate))
			end := int(math.RoundToEven(seg.End * rate))
			path := filepath.Join(outDir, seg.Utterance+".wav")
			if err := audio.WriteWAVFile(path, clip.Slice(start, end)); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written++
			bar.Increment()
		}
	}
	return written, nil
}

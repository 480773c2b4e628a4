package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/corpus"
	"github.com/kbukum/speechkit/diarization"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/validation"
	"github.com/kbukum/speechkit/version"
)

type rootOptions struct {
	configFile string
	envFile    string
	dataDir    string
	runID      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "speechkit",
		Short:         "Diarization training data from Kaldi corpora",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default: search cmd/speechkit, config/ and the working directory)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", ".env file to load")
	cmd.PersistentFlags().StringVarP(&opts.dataDir, "data-dir", "d", "", "Kaldi data directory (overrides data_dir)")
	cmd.PersistentFlags().StringVar(&opts.runID, "run-id", "", "UUID attached to every log line (default: generated)")

	cmd.AddCommand(
		newPlanCmd(opts),
		newInspectCmd(opts),
		newExtractCmd(opts),
		newBatchesCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// app holds the components shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	index    *corpus.Index
	decoder  audio.Decoder
	cache    *audio.CachedDecoder
	metrics  *observability.LoaderMetrics
	shutdown func(context.Context) error
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	if err := validation.New().OptionalUUID("run_id", opts.runID).Err(); err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if opts.runID != "" {
		ctx = logger.ContextWithRunID(ctx, opts.runID)
	}

	var loadOpts []config.LoaderOption
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(opts.envFile))
	}
	if opts.dataDir != "" {
		loadOpts = append(loadOpts, config.WithOverride("data_dir", opts.dataDir))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, cmd.ErrOrStderr()).WithContext(ctx)

	shutdown, err := observability.Setup(ctx, cfg.Name, cfg.Environment, cfg.Observability, log)
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}
	metrics, err := observability.NewLoaderMetrics(observability.Meter(cfg.Name))
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	idx, err := corpus.Load(cfg.DataDir)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	stats := idx.Stats()
	log.Info("Corpus loaded", logger.Fields(
		"data_dir", cfg.DataDir,
		"recordings", stats.Recordings,
		"segments", stats.Segments,
		"speakers", stats.Speakers,
	))

	a := &app{cfg: cfg, log: log, index: idx, metrics: metrics, shutdown: shutdown}
	a.decoder = audio.NewSourceDecoder(
		audio.WithStdin(cmd.InOrStdin()),
		audio.WithLogger(log),
	)
	if cfg.Cache.Enabled {
		a.cache, err = audio.NewCachedDecoder(a.decoder, cfg.Cache.Size,
			audio.WithCacheObserver(metrics.RecordCacheLookup))
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		a.decoder = a.cache
	}
	return a, nil
}

func (a *app) dataset(ctx context.Context) (*diarization.Dataset, error) {
	return diarization.NewDataset(ctx, a.index, a.decoder, a.cfg.Dataset,
		diarization.WithDatasetLogger(a.log))
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		a.log.Warn("Telemetry shutdown failed", logger.ErrorFields("shutdown", err))
	}
}

// withApp builds the app for a subcommand and tears it down afterwards.
func withApp(opts *rootOptions, run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, opts)
		if err != nil {
			return err
		}
		defer a.close(context.WithoutCancel(cmd.Context()))
		return run(cmd, args, a)
	}
}

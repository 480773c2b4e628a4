package diarization

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/corpus"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
)

// Chunk addresses one dataset item in label frames.
type Chunk struct {
	Recording string `json:"recording"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

// Dataset is the indexable list of chunks of a corpus. The chunk list is
// built once and read-only afterwards.
type Dataset struct {
	index   *corpus.Index
	labeler *Labeler
	cfg     Config
	chunks  []Chunk
	// per-recording chunk counts, in wav.scp order
	perRecording []RecordingPlan
}

// RecordingPlan summarizes the windows planned for one recording.
type RecordingPlan struct {
	Recording   string `json:"recording"`
	FrameLength int    `json:"frame_length"`
	Chunks      int    `json:"chunks"`
	// Probed is set when the length came from the audio source instead of reco2dur.
	Probed bool `json:"probed"`
}

// DatasetOption configures NewDataset.
type DatasetOption func(*datasetOptions)

type datasetOptions struct {
	log *logger.Logger
}

// WithDatasetLogger sets the logger used while planning.
func WithDatasetLogger(l *logger.Logger) DatasetOption {
	return func(o *datasetOptions) { o.log = l }
}

// NewDataset plans the chunks of every recording in wav.scp order.
//
// Recording lengths come from reco2dur. When reco2dur is absent, or lacks a
// recording, the audio source is probed through dec instead.
func NewDataset(ctx context.Context, idx *corpus.Index, dec audio.Decoder, cfg Config, opts ...DatasetOption) (_ *Dataset, err error) {
	o := datasetOptions{log: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ds := &Dataset{
		index:   idx,
		labeler: NewLabeler(idx, dec, cfg),
		cfg:     cfg,
	}
	log := o.log.WithComponent("diarization.dataset")

	ctx, span := observability.StartSpan(ctx, observability.SpanPlan)
	defer func() { observability.EndSpan(span, err) }()

	for _, rec := range idx.Recordings() {
		duration, probed, err := recordingDuration(ctx, idx, dec, rec)
		if err != nil {
			return nil, err
		}
		length := FrameLength(duration, cfg.SampleRate, cfg.FrameShift, cfg.Subsampling)
		windows := Plan(length, cfg.ChunkSize, cfg.Step, cfg.UseLastSamples, cfg.LabelDelay, cfg.Subsampling)
		for _, w := range windows {
			ds.chunks = append(ds.chunks, Chunk{
				Recording: rec,
				Start:     w.Start * cfg.Subsampling,
				End:       w.End * cfg.Subsampling,
			})
		}
		ds.perRecording = append(ds.perRecording, RecordingPlan{
			Recording: rec, FrameLength: length, Chunks: len(windows), Probed: probed,
		})
		log.Debug("planned recording", logger.Fields(
			logger.FieldRecording, rec, "frames", length, "chunks", len(windows), "probed", probed,
		))
	}

	span.SetAttributes(attribute.Int("speechkit.chunks", len(ds.chunks)))
	log.Info("dataset ready", logger.Fields(
		"recordings", len(ds.perRecording), "chunks", len(ds.chunks),
	))
	return ds, nil
}

func recordingDuration(ctx context.Context, idx *corpus.Index, dec audio.Decoder, rec string) (float64, bool, error) {
	if d, ok := idx.Duration(rec); ok {
		return d, false, nil
	}
	source, _ := idx.Source(rec)
	info, err := dec.Probe(ctx, source)
	if err != nil {
		return 0, false, err
	}
	return info.Duration(), true, nil
}

// Len returns the number of chunks.
func (ds *Dataset) Len() int { return len(ds.chunks) }

// Chunk returns the i-th chunk descriptor.
func (ds *Dataset) Chunk(i int) (Chunk, error) {
	if i < 0 || i >= len(ds.chunks) {
		return Chunk{}, errors.InvalidInput("index", fmt.Sprintf("chunk %d out of range [0, %d)", i, len(ds.chunks)))
	}
	return ds.chunks[i], nil
}

// Chunks returns a copy of every chunk descriptor.
func (ds *Dataset) Chunks() []Chunk {
	out := make([]Chunk, len(ds.chunks))
	copy(out, ds.chunks)
	return out
}

// Plans returns the per-recording planning summary in wav.scp order.
func (ds *Dataset) Plans() []RecordingPlan {
	out := make([]RecordingPlan, len(ds.perRecording))
	copy(out, ds.perRecording)
	return out
}

// Get decodes and labels the i-th chunk.
func (ds *Dataset) Get(ctx context.Context, i int) (*Item, error) {
	c, err := ds.Chunk(i)
	if err != nil {
		return nil, err
	}
	return ds.labeler.Load(ctx, c.Recording, c.Start, c.End)
}

// Index returns the corpus the dataset was built from.
func (ds *Dataset) Index() *corpus.Index { return ds.index }

// Config returns the effective configuration.
func (ds *Dataset) Config() Config { return ds.cfg }

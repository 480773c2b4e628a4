package dataloader

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/speechkit/diarization"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
)

// Source is an indexable item list, such as *diarization.Dataset.
type Source interface {
	Len() int
	Get(ctx context.Context, i int) (*diarization.Item, error)
}

// Collator combines loaded items into a batch.
type Collator interface {
	Collate(items []*diarization.Item) (*diarization.Batch, error)
}

// Batch is a collated batch and the dataset indices it was built from.
type Batch struct {
	*diarization.Batch
	Index   int
	Indices []int
}

// Loader produces batches from a Source.
type Loader struct {
	src      Source
	cfg      Config
	collator Collator
	log      *logger.Logger
	metrics  *observability.LoaderMetrics
}

// Option configures a Loader.
type Option func(*Loader)

// WithCollator sets the collator. Defaults to diarization.Collator{}, which
// pads to the longest item of each batch.
func WithCollator(c Collator) Option {
	return func(l *Loader) { l.collator = c }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithMetrics records item and batch metrics.
func WithMetrics(m *observability.LoaderMetrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// New creates a Loader.
func New(src Source, cfg Config, opts ...Option) (*Loader, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Loader{
		src:      src,
		cfg:      cfg,
		collator: diarization.Collator{},
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.WithComponent("dataloader")
	return l, nil
}

// Order returns the item visiting order: sequential, or a permutation fixed
// by the configured seed.
func (l *Loader) Order() []int {
	n := l.src.Len()
	if l.cfg.Shuffle {
		rng := rand.New(rand.NewPCG(l.cfg.Seed, l.cfg.Seed^0x9e3779b97f4a7c15))
		return rng.Perm(n)
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// Plan splits Order into batches of dataset indices. A short final batch is
// dropped when DropLast is set.
func (l *Loader) Plan() [][]int {
	order := l.Order()
	size := l.cfg.BatchSize
	batches := make([][]int, 0, (len(order)+size-1)/size)
	for start := 0; start < len(order); start += size {
		end := min(start+size, len(order))
		if end-start < size && l.cfg.DropLast {
			break
		}
		batches = append(batches, order[start:end])
	}
	return batches
}

// NumBatches returns len(Plan()).
func (l *Loader) NumBatches() int {
	n, size := l.src.Len(), l.cfg.BatchSize
	if l.cfg.DropLast {
		return n / size
	}
	return (n + size - 1) / size
}

// LoadBatch loads indices concurrently and collates them. Every load runs to
// completion; the first failure is returned and nothing is collated.
func (l *Loader) LoadBatch(ctx context.Context, indices []int) (*diarization.Batch, error) {
	items := make([]*diarization.Item, len(indices))

	var g errgroup.Group
	g.SetLimit(l.cfg.Workers)
	for slot, idx := range indices {
		g.Go(func() error {
			item, err := l.loadItem(ctx, idx)
			if err != nil {
				return fmt.Errorf("item %d: %w", idx, err)
			}
			items[slot] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return l.collator.Collate(items)
}

func (l *Loader) loadItem(ctx context.Context, idx int) (*diarization.Item, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanItemLoad,
		trace.WithAttributes(attribute.Int(observability.AttrChunkIndex, idx)))
	start := time.Now()

	item, err := l.src.Get(ctx, idx)

	code := ""
	if err != nil {
		code = string(errors.CodeOf(err))
		span.SetAttributes(attribute.String(observability.AttrErrorCode, code))
	} else {
		span.SetAttributes(
			attribute.String(observability.AttrRecording, item.Recording),
			attribute.Int(observability.AttrStartFrame, item.Start),
			attribute.Int(observability.AttrEndFrame, item.End),
		)
	}
	l.metrics.RecordItem(ctx, code, time.Since(start))
	observability.EndSpan(span, err)
	return item, err
}

func (l *Loader) batch(ctx context.Context, n int, indices []int) (*Batch, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanBatchLoad, trace.WithAttributes(
		attribute.Int(observability.AttrBatchIndex, n),
		attribute.Int(observability.AttrBatchSize, len(indices)),
	))
	start := time.Now()

	b, err := l.LoadBatch(ctx, indices)

	status := "ok"
	if err != nil {
		status = "error"
		l.log.WithContext(ctx).Error("batch failed", logger.Fields(
			logger.FieldBatch, n, logger.FieldError, err.Error(),
			"code", string(errors.CodeOf(err)),
		))
	}
	l.metrics.RecordBatch(ctx, status, time.Since(start))
	observability.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("batch %d: %w", n, err)
	}
	return &Batch{Batch: b, Index: n, Indices: indices}, nil
}

// ForEach loads batches in order and calls fn for each, stopping at the
// first error from loading or from fn.
func (l *Loader) ForEach(ctx context.Context, fn func(b *Batch) error) error {
	it := l.Batches(ctx)
	defer it.Close()
	for {
		b, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(b); err != nil {
			return err
		}
	}
}

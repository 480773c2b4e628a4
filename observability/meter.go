package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// newMeterProvider pushes metrics to the OTLP endpoint every MetricInterval.
func newMeterProvider(ctx context.Context, res *resource.Resource, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	), nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// LoaderMetrics holds the instruments of the item loading path.
// A nil *LoaderMetrics records nothing.
type LoaderMetrics struct {
	itemsTotal    metric.Int64Counter
	itemDuration  metric.Float64Histogram
	errorsTotal   metric.Int64Counter
	batchesTotal  metric.Int64Counter
	batchDuration metric.Float64Histogram
	cacheLookups  metric.Int64Counter
}

// NewLoaderMetrics creates loader instruments on the given meter.
func NewLoaderMetrics(meter metric.Meter) (*LoaderMetrics, error) {
	itemsTotal, err := meter.Int64Counter("speechkit.items.loaded",
		metric.WithDescription("Chunks decoded and labeled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speechkit.items.loaded counter: %w", err)
	}

	itemDuration, err := meter.Float64Histogram("speechkit.item.duration",
		metric.WithDescription("Time to decode and label one chunk"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speechkit.item.duration histogram: %w", err)
	}

	errorsTotal, err := meter.Int64Counter("speechkit.load.errors",
		metric.WithDescription("Item load failures by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speechkit.load.errors counter: %w", err)
	}

	batchesTotal, err := meter.Int64Counter("speechkit.batches",
		metric.WithDescription("Batches produced by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speechkit.batches counter: %w", err)
	}

	batchDuration, err := meter.Float64Histogram("speechkit.batch.duration",
		metric.WithDescription("Time to load and collate one batch"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speechkit.batch.duration histogram: %w", err)
	}

	cacheLookups, err := meter.Int64Counter("speechkit.decode_cache.lookups",
		metric.WithDescription("Decode cache lookups by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speechkit.decode_cache.lookups counter: %w", err)
	}

	return &LoaderMetrics{
		itemsTotal:    itemsTotal,
		itemDuration:  itemDuration,
		errorsTotal:   errorsTotal,
		batchesTotal:  batchesTotal,
		batchDuration: batchDuration,
		cacheLookups:  cacheLookups,
	}, nil
}

// RecordItem records one item load. code is empty on success.
func (m *LoaderMetrics) RecordItem(ctx context.Context, code string, duration time.Duration) {
	if m == nil {
		return
	}
	m.itemDuration.Record(ctx, duration.Seconds())
	if code == "" {
		m.itemsTotal.Add(ctx, 1)
		return
	}
	m.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}

// RecordBatch records one batch.
func (m *LoaderMetrics) RecordBatch(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.batchesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.batchDuration.Record(ctx, duration.Seconds())
}

// RecordCacheLookup records a decode cache hit or miss.
func (m *LoaderMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

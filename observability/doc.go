// Package observability wires OpenTelemetry tracing and metrics into the
// loading path.
//
//	shutdown, err := observability.Setup(ctx, "speechkit", "development", cfg, log)
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewLoaderMetrics(observability.Meter("speechkit"))
//	metrics.RecordItem(ctx, "", elapsed)
//
// Spans are started per item load and per batch; see SpanItemLoad and
// SpanBatchLoad.
package observability

// Package instrumentation configures OpenTelemetry metrics and tracing.
//
// The Provider owns the meter and tracer providers and their exporters
// (prometheus, otlp, or stdout, selected via environment variables); the
// Metrics type records the sync-domain metrics: run counts and durations,
// per-item results, and write retries. One-shot runs default to no
// exporters; the serve mode enables the Prometheus exporter so the metrics
// server has something to scrape.
package instrumentation

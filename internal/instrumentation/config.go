package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Exporter type constants.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: linearcal)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Enabled determines if instrumentation is active (default: true)
	// Set to false via INSTRUMENTATION_ENABLED=false to disable metrics and tracing
	Enabled bool

	// MetricsExporter specifies the metrics exporter type
	// Options: "prometheus", "otlp", "stdout", "none" (default: "none")
	// The serve command switches the default to "prometheus" so the metrics
	// server has something to expose; one-shot sync runs default to none.
	MetricsExporter string

	// TracingExporter specifies the tracing exporter type
	// Options: "otlp", "stdout", "none" (default: "none")
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint, e.g. "localhost:4318"
	// (without protocol prefix)
	OTLPEndpoint string

	// OTLPInsecure controls whether to use insecure HTTP for OTLP export.
	// Keep false outside local development.
	OTLPInsecure bool

	// TraceSamplingRate is the sampling rate for traces (0.0 to 1.0, default: 1.0;
	// runs are rare enough that sampling them all is cheap)
	TraceSamplingRate float64
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ServiceName:       "linearcal",
		ServiceVersion:    "dev",
		Enabled:           true,
		MetricsExporter:   ExporterNone,
		TracingExporter:   ExporterNone,
		TraceSamplingRate: 1.0,
	}
}

// FromEnv creates a Config from environment variables, falling back to
// defaults for anything unset.
func FromEnv() Config {
	config := DefaultConfig()

	if v := os.Getenv("INSTRUMENTATION_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.Enabled = enabled
		}
	}
	if v := os.Getenv("METRICS_EXPORTER"); v != "" {
		config.MetricsExporter = v
	}
	if v := os.Getenv("TRACING_EXPORTER"); v != "" {
		config.TracingExporter = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		config.OTLPEndpoint = v
	}
	if v := os.Getenv("OTLP_INSECURE"); v != "" {
		if insecure, err := strconv.ParseBool(v); err == nil {
			config.OTLPInsecure = insecure
		}
	}
	if v := os.Getenv("TRACE_SAMPLING_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= 0.0 && rate <= 1.0 {
			config.TraceSamplingRate = rate
		}
	}

	return config
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.MetricsExporter {
	case ExporterPrometheus, ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid metrics exporter: %s", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter: %s", c.TracingExporter)
	}

	if c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP {
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when using the otlp exporter")
		}
	}

	if c.TraceSamplingRate < 0.0 || c.TraceSamplingRate > 1.0 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	return nil
}

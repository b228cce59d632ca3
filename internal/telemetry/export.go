package telemetry

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ExportConfig selects where spans and metrics go. An empty Endpoint writes
// both to Writer (stderr when nil) instead of an OTLP collector.
type ExportConfig struct {
	Endpoint       string
	Insecure       bool
	MetricInterval time.Duration
	Writer         io.Writer
}

// NewExport builds the span exporter and periodic metric reader for cfg.
func NewExport(ctx context.Context, cfg ExportConfig) (sdktrace.SpanExporter, sdkmetric.Reader, error) {
	interval := cfg.MetricInterval
	if interval <= 0 {
		interval = time.Minute
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint != "" {
		traceOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		metricOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
		if cfg.Insecure {
			traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
			metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
		}
		spanExp, err := otlptracehttp.New(ctx, traceOpts...)
		if err != nil {
			return nil, nil, err
		}
		metricExp, err := otlpmetrichttp.New(ctx, metricOpts...)
		if err != nil {
			return nil, nil, errors.Join(err, spanExp.Shutdown(ctx))
		}
		return spanExp, sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(interval)), nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	spanExp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, nil, err
	}
	metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, nil, errors.Join(err, spanExp.Shutdown(ctx))
	}
	return spanExp, sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(interval)), nil
}

package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_ExportsSpansAndMetrics(t *testing.T) {
	originalTP := otel.GetTracerProvider()
	originalMP := otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(originalTP)
		otel.SetMeterProvider(originalMP)
	})

	exporter := tracetest.NewInMemoryExporter()
	reader := sdkmetric.NewManualReader()
	shutdown, err := Setup(context.Background(), ProviderConfig{
		Version:      "test",
		SpanExporter: exporter,
		MetricReader: reader,
	})
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "timeline.build")
	EndSpan(span, errors.New("boom"))

	rec, err := NewRecorder()
	require.NoError(t, err)
	rec.EntryWritten(context.Background(), "company-create")
	require.NotNil(t, findMetric(t, reader, "activitylog.entries.written"))

	require.NoError(t, shutdown(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "timeline.build", spans[0].Name)
	require.Equal(t, codes.Error, spans[0].Status.Code)
}

package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "level=WARN")
}

func TestNewLogger_DefaultsToJSONInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "chatty", "")

	logger.Info("hello")

	require.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestInit_WithoutTraceExporter(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("LOG_LEVEL", "error")
	ctx := context.Background()

	instruments, shutdown, err := Init(ctx, "catalog-test")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, shutdown(ctx)) })

	counter, err := instruments.Meter("test").Int64Counter("pets.test.count")
	require.NoError(t, err)
	counter.Add(ctx, 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, instruments.MetricReader.Collect(ctx, &rm))
	require.NotEmpty(t, rm.ScopeMetrics)

	_, span := instruments.Tracer("test").Start(ctx, "span")
	span.End()
}

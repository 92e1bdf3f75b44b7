package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitProvider_Disabled(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestInitProvider_InvalidEndpoint(t *testing.T) {
	_, err := InitProvider(context.Background(), Config{Enabled: true, OTLPEndpoint: "collector:4318"})
	assert.Error(t, err)
}

func TestParseEndpoint(t *testing.T) {
	ep, err := parseEndpoint("http://otel-collector:4318/")
	require.NoError(t, err)
	assert.Equal(t, "otel-collector:4318", ep.host)
	assert.True(t, ep.insecure)
	assert.Equal(t, "/v1/traces", ep.path("traces"))

	ep, err = parseEndpoint("https://collector.example.com/otlp")
	require.NoError(t, err)
	assert.False(t, ep.insecure)
	assert.Equal(t, "/otlp/v1/logs", ep.path("logs"))

	_, err = parseEndpoint("grpc://collector:4317")
	assert.Error(t, err)
}

func TestNewResource_ReportAttributes(t *testing.T) {
	res, err := newResource(context.Background(), Config{
		ServiceName:              "report-assembler",
		PolisAPIBaseURL:          "https://pol.is",
		CorrelationMatrixEnabled: true,
	})
	require.NoError(t, err)

	set := res.Set()
	host, ok := set.Value(attribute.Key("polis.api.host"))
	require.True(t, ok)
	assert.Equal(t, "pol.is", host.AsString())

	corr, ok := set.Value(attribute.Key("report.correlation_matrix.enabled"))
	require.True(t, ok)
	assert.True(t, corr.AsBool())

	strict, ok := set.Value(attribute.Key("report.strict_validation"))
	require.True(t, ok)
	assert.False(t, strict.AsBool())
}

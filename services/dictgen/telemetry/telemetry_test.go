// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_METRICS_EXPORTER", "")

	cfg := DefaultConfig()
	assert.Equal(t, "dictgen", cfg.ServiceName)
	assert.Equal(t, ExporterNone, cfg.TraceExporter)
	assert.Equal(t, ExporterNone, cfg.MetricExporter)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "stdout")
	t.Setenv("DICTGEN_ENV", "ci")

	cfg := DefaultConfig()
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "ci", cfg.Environment)
}

func TestInit_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	_, err := Init(nil, Config{})
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestInit_None(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{TraceExporter: ExporterNone, MetricExporter: ExporterNone})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_UnknownExporter(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"trace", Config{TraceExporter: "zipkin", MetricExporter: ExporterNone}},
		{"metric", Config{TraceExporter: ExporterNone, MetricExporter: "statsd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Init(context.Background(), tt.cfg)
			assert.True(t, errors.Is(err, ErrUnknownExporter))
		})
	}
}

func TestInit_PrometheusServesMetrics(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{
		ServiceName:    "dictgen-test",
		TraceExporter:  ExporterNone,
		MetricExporter: ExporterPrometheus,
	})
	require.NoError(t, err)
	defer shutdown(context.Background())

	m, err := NewMetrics(otel.Meter("dictgen-test"))
	require.NoError(t, err)
	m.AddLine(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	addr, done, err := ServeMetrics(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "dictgen_lines_emitted_total"), "body: %s", body)

	resp, err = http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestInit_OTLPConnectsLazily(t *testing.T) {
	// grpc.NewClient does not dial until the first export
	shutdown, err := Init(context.Background(), Config{
		ServiceName:    "dictgen-test",
		ServiceVersion: "test",
		TraceExporter:  ExporterOTLP,
		MetricExporter: ExporterNone,
		OTLPEndpoint:   "127.0.0.1:1",
		OTLPInsecure:   true,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = shutdown(ctx)
}

func TestServeMetrics_NoHandler(t *testing.T) {
	metricsHandlerMu.Lock()
	saved := metricsHandler
	metricsHandler = nil
	metricsHandlerMu.Unlock()
	t.Cleanup(func() {
		metricsHandlerMu.Lock()
		metricsHandler = saved
		metricsHandlerMu.Unlock()
	})

	_, _, err := ServeMetrics(context.Background(), "127.0.0.1:0")
	assert.ErrorIs(t, err, ErrNoMetricsHandler)
}

// =============================================================================
// Metrics
// =============================================================================

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.AddLine(ctx)
	m.AddLine(ctx)
	m.RecordKeyword(ctx, "completed", 20*time.Millisecond)
	m.RecordKeyword(ctx, "failed", time.Millisecond)
	m.RecordSinkError(ctx)

	data := collect(t, reader)

	lines, ok := data["dictgen_lines_emitted_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, lines.DataPoints, 1)
	assert.Equal(t, int64(2), lines.DataPoints[0].Value)

	keywords, ok := data["dictgen_keywords_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, keywords.DataPoints, 2, "one series per status")

	hist, ok := data["dictgen_keyword_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)

	sinkErrs, ok := data["dictgen_sink_errors_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), sinkErrs.DataPoints[0].Value)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddLine(context.Background())
		m.RecordKeyword(context.Background(), "completed", time.Second)
		m.RecordSinkError(context.Background())
	})
}

// =============================================================================
// Tracing
// =============================================================================

func TestSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartSpan(context.Background(), "dictgen.keyword")
	assert.NotEmpty(t, TraceID(ctx))
	RecordError(span, errors.New("disk full"))
	span.End()

	_, ok := StartSpan(context.Background(), "dictgen.keyword")
	SetSpanOK(ok)
	ok.End()

	ended := sr.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, codes.Ok, ended[1].Status().Code)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestSpanHelpers_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(nil, errors.New("x"))
		SetSpanOK(nil)
	})
}

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
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics contains the generation metrics.
//
// # Description
//
// All methods accept a nil receiver and do nothing, so components can hold
// an optional *Metrics without guarding every call site.
//
// # Thread Safety
//
// Safe for concurrent use after creation.
type Metrics struct {
	// LinesEmitted counts strings written to the sink.
	LinesEmitted metric.Int64Counter

	// KeywordsTotal counts finished keyword jobs by status.
	KeywordsTotal metric.Int64Counter

	// KeywordDuration records keyword job wall time in seconds.
	KeywordDuration metric.Float64Histogram

	// SinkErrors counts fatal append failures.
	SinkErrors metric.Int64Counter
}

// NewMetrics registers the generation metrics with meter.
//
// # Example
//
//	metrics, err := telemetry.NewMetrics(otel.Meter("dictgen"))
//	if err != nil {
//	    return fmt.Errorf("create metrics: %w", err)
//	}
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.LinesEmitted, err = meter.Int64Counter(
		"dictgen_lines_emitted_total",
		metric.WithDescription("Strings written to the output file"),
		metric.WithUnit("{line}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create lines_emitted_total: %w", err)
	}

	m.KeywordsTotal, err = meter.Int64Counter(
		"dictgen_keywords_total",
		metric.WithDescription("Finished keyword jobs by status"),
		metric.WithUnit("{keyword}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create keywords_total: %w", err)
	}

	m.KeywordDuration, err = meter.Float64Histogram(
		"dictgen_keyword_duration_seconds",
		metric.WithDescription("Keyword job duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900),
	)
	if err != nil {
		return nil, fmt.Errorf("create keyword_duration: %w", err)
	}

	m.SinkErrors, err = meter.Int64Counter(
		"dictgen_sink_errors_total",
		metric.WithDescription("Fatal output file failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sink_errors_total: %w", err)
	}

	return m, nil
}

// AddLine counts one emitted string.
func (m *Metrics) AddLine(ctx context.Context) {
	if m == nil {
		return
	}
	m.LinesEmitted.Add(ctx, 1)
}

// RecordKeyword records a finished keyword job.
func (m *Metrics) RecordKeyword(ctx context.Context, status string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.KeywordsTotal.Add(ctx, 1, attrs)
	m.KeywordDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordSinkError counts a fatal sink failure.
func (m *Metrics) RecordSinkError(ctx context.Context) {
	if m == nil {
		return
	}
	m.SinkErrors.Add(ctx, 1)
}

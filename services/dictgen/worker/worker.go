// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package worker runs the mutation pipeline for a single keyword and streams
// every produced string to the shared sink.
package worker

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/big"
	"time"

	"github.com/AleutianAI/dictgen/pkg/logging"
	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/AleutianAI/dictgen/services/dictgen/mutation"
	"github.com/AleutianAI/dictgen/services/dictgen/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Sink receives produced strings. *sink.File implements it.
type Sink interface {
	Append(line string) error
}

// Counter is the shared progress count. *progress.Counter implements it.
type Counter interface {
	Increment()
}

// Status is the outcome of one keyword job.
type Status string

const (
	StatusCompleted    Status = "completed"
	StatusLimitReached Status = "limit_reached"
	StatusCancelled    Status = "cancelled"
	StatusFailed       Status = "failed"
)

// Report summarizes one keyword job.
type Report struct {
	Keyword  string
	Emitted  int64
	Status   Status
	Err      error
	Duration time.Duration
}

// Fatal reports whether the job failed in a way that must stop the run.
func (r Report) Fatal() bool {
	return r.Status == StatusFailed && dgerr.IsFatal(r.Err)
}

// Expander builds the string sequence for a job. mutation.Expand by default.
type Expander func(keyword string, cfg mutation.Config) (iter.Seq[string], error)

type options struct {
	logger        *logging.Logger
	metrics       *telemetry.Metrics
	progressEvery time.Duration
	expand        Expander
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger. Records carry the keyword.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records per-keyword status, duration and sink errors.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithProgressEvery sets the minimum gap between debug progress records.
// Default: 2s.
func WithProgressEvery(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.progressEvery = d
		}
	}
}

// WithExpander replaces the pipeline. Intended for tests.
func WithExpander(e Expander) Option {
	return func(o *options) {
		if e != nil {
			o.expand = e
		}
	}
}

// Run expands job and appends every string to sink.
//
// # Description
//
// For each produced string Run checks ctx, appends the string, increments
// counter, then increments its local count. Strings of one job reach the
// sink in pipeline order.
//
// Failures are confined to the job and reported, never returned or panicked:
//   - Invalid keyword or config: StatusFailed, no strings emitted.
//   - Sink failure: StatusFailed with an ErrIOFailure error. Report.Fatal is
//     true and the caller must stop the whole run.
//   - ctx cancelled: StatusCancelled, Err nil. Strings already appended stay.
//   - Panic in the pipeline: recovered, StatusFailed.
//
// # Inputs
//
//   - ctx: Cancellation for this job.
//   - job: Keyword and config.
//   - sink: Shared output.
//   - counter: Shared progress count.
//
// # Outputs
//
//   - Report: Outcome with the number of strings this job appended.
//
// # Thread Safety
//
// Run may be called concurrently for different jobs sharing sink and counter.
func Run(ctx context.Context, job mutation.Job, sink Sink, counter Counter, opts ...Option) (rep Report) {
	o := options{
		logger:        logging.Nop(),
		progressEvery: 2 * time.Second,
		expand:        mutation.Expand,
	}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	rep = Report{Keyword: job.Keyword}
	log := o.logger.With("keyword", job.Keyword)

	ctx, span := telemetry.StartSpan(ctx, "dictgen.keyword",
		trace.WithAttributes(
			attribute.String("dictgen.keyword", job.Keyword),
			attribute.String("dictgen.config", job.Config.Summary()),
		),
	)

	defer func() {
		if r := recover(); r != nil {
			rep.Status = StatusFailed
			rep.Err = dgerr.WithKeyword(fmt.Errorf("pipeline panic: %v", r), job.Keyword)
		}
		rep.Duration = time.Since(start)
		finish(ctx, span, log, o.metrics, rep)
	}()

	seq, err := o.expand(job.Keyword, job.Config)
	if err != nil {
		rep.Status = StatusFailed
		rep.Err = dgerr.WithKeyword(err, job.Keyword)
		return rep
	}

	log.Debug("keyword started", "config", job.Config.Summary())
	progressLog := rate.Sometimes{Interval: o.progressEvery}
	done := ctx.Done()

	for s := range seq {
		select {
		case <-done:
			rep.Status = StatusCancelled
			return rep
		default:
		}

		if err := sink.Append(s); err != nil {
			o.metrics.RecordSinkError(ctx)
			rep.Status = StatusFailed
			rep.Err = dgerr.WithKeyword(err, job.Keyword)
			return rep
		}
		counter.Increment()
		rep.Emitted++

		progressLog.Do(func() {
			log.Debug("keyword progress", "emitted", rep.Emitted)
		})
	}

	if ctx.Err() != nil {
		rep.Status = StatusCancelled
		return rep
	}

	rep.Status = StatusCompleted
	if limitHit(job) {
		rep.Status = StatusLimitReached
	}
	return rep
}

// limitHit reports whether the limit cut the expansion short.
func limitHit(job mutation.Job) bool {
	if job.Config.Limit <= 0 {
		return false
	}
	unlimited := job.Config
	unlimited.Limit = 0
	return mutation.Count(job.Keyword, unlimited).Cmp(big.NewInt(int64(job.Config.Limit))) > 0
}

func finish(ctx context.Context, span trace.Span, log *logging.Logger, m *telemetry.Metrics, rep Report) {
	defer span.End()

	span.SetAttributes(
		attribute.Int64("dictgen.emitted", rep.Emitted),
		attribute.String("dictgen.status", string(rep.Status)),
	)
	m.RecordKeyword(ctx, string(rep.Status), rep.Duration)

	switch {
	case rep.Status == StatusFailed && errors.Is(rep.Err, dgerr.ErrIOFailure):
		telemetry.RecordError(span, rep.Err)
		log.Error("keyword aborted by output failure",
			"emitted", rep.Emitted,
			"error", rep.Err,
			"hint", dgerr.HintOf(rep.Err),
		)
	case rep.Status == StatusFailed:
		telemetry.RecordError(span, rep.Err)
		log.Warn("keyword failed", "error", rep.Err)
	case rep.Status == StatusCancelled:
		log.Info("keyword cancelled", "emitted", rep.Emitted)
	default:
		telemetry.SetSpanOK(span)
		log.Info("keyword finished",
			"emitted", rep.Emitted,
			"status", string(rep.Status),
			"duration", rep.Duration.Round(time.Millisecond),
		)
	}
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dispatch fans keyword jobs out to a bounded pool of workers that
// share one output sink and one progress counter.
package dispatch

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/AleutianAI/dictgen/pkg/logging"
	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/AleutianAI/dictgen/services/dictgen/mutation"
	"github.com/AleutianAI/dictgen/services/dictgen/progress"
	"github.com/AleutianAI/dictgen/services/dictgen/sink"
	"github.com/AleutianAI/dictgen/services/dictgen/telemetry"
	"github.com/AleutianAI/dictgen/services/dictgen/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Sink is the output the dispatcher owns for the length of a run.
type Sink interface {
	worker.Sink
	Close() error

	// Lines is the number of lines the sink accepted.
	Lines() int64
}

// SinkOpener opens the run's output. sink.Open adapted by default.
type SinkOpener func(path string, opts sink.Options) (Sink, error)

// ProgressHook is called after every finished job.
type ProgressHook func(completed, total int, last *worker.Report)

// StartHook is called once the sink and counter exist, before any job runs.
// Renderers use it to begin polling counter.
type StartHook func(runID string, counter progress.Reader)

// Dispatcher runs keyword jobs in parallel.
//
// # Thread Safety
//
// A Dispatcher is immutable after New; concurrent Run calls are safe but each
// should target a different output path.
type Dispatcher struct {
	workers       int
	logger        *logging.Logger
	metrics       *telemetry.Metrics
	onProgress    ProgressHook
	onStart       StartHook
	openSink      SinkOpener
	progressEvery time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers sets the pool size. n <= 0 uses runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(d *Dispatcher) { d.workers = n }
}

// WithLogger sets the logger passed to every worker.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics enables generation metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithProgressHook sets a per-job completion callback.
func WithProgressHook(h ProgressHook) Option {
	return func(d *Dispatcher) { d.onProgress = h }
}

// WithStartHook sets the run start callback.
func WithStartHook(h StartHook) Option {
	return func(d *Dispatcher) { d.onStart = h }
}

// WithSinkOpener replaces how the output is opened.
func WithSinkOpener(o SinkOpener) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.openSink = o
		}
	}
}

// WithProgressEvery sets the worker debug progress interval.
func WithProgressEvery(iv time.Duration) Option {
	return func(d *Dispatcher) { d.progressEvery = iv }
}

// New creates a Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger: logging.Nop(),
		openSink: func(path string, o sink.Options) (Sink, error) {
			return sink.Open(path, o)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers <= 0 {
		d.workers = runtime.GOMAXPROCS(0)
	}
	if d.workers < 1 {
		d.workers = 1
	}
	return d
}

// Workers returns the effective pool size.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// RunRequest is the input of one generation run.
type RunRequest struct {
	Jobs       []mutation.Job
	OutputPath string

	// Append keeps existing file content instead of truncating.
	Append bool
}

// RunReport is the outcome of one generation run.
type RunReport struct {
	RunID      string
	OutputPath string

	// Reports holds one entry per job, in job order.
	Reports []worker.Report

	// Lines is the final value of the shared counter.
	Lines int64

	Duration  time.Duration
	Cancelled bool
}

// Count returns how many jobs finished with status.
func (r *RunReport) Count(status worker.Status) int {
	n := 0
	for _, rep := range r.Reports {
		if rep.Status == status {
			n++
		}
	}
	return n
}

// Run executes every job and waits for all of them.
//
// # Description
//
// Opens the sink (truncating unless req.Append), creates a fresh counter and
// runs one worker per job, at most Workers() at a time. Each job runs to
// completion on its goroutine.
//
//   - A job that fails on its keyword or config is reported; siblings go on.
//   - A sink failure is fatal: the shared context is cancelled, in-flight
//     workers stop, unstarted jobs are reported cancelled, and Run returns
//     the ErrIOFailure error together with the partial report.
//   - Cancelling ctx stops all workers; Run returns a report with
//     Cancelled=true and a nil error.
//
// # Outputs
//
//   - *RunReport: Always non-nil once the sink is open.
//   - error: ErrInvalidInput for an empty job list, ErrIOFailure for sink
//     failures.
func (d *Dispatcher) Run(ctx context.Context, req RunRequest) (*RunReport, error) {
	if len(req.Jobs) == 0 {
		return nil, dgerr.InvalidInput("dispatch", "no keywords to process")
	}

	start := time.Now()
	runID := uuid.NewString()
	log := d.logger.With("run_id", runID)

	ctx, span := telemetry.StartSpan(ctx, "dictgen.run",
		trace.WithAttributes(
			attribute.String("dictgen.run_id", runID),
			attribute.Int("dictgen.jobs", len(req.Jobs)),
			attribute.Int("dictgen.workers", d.workers),
		),
	)
	defer span.End()

	out, err := d.openSink(req.OutputPath, sink.Options{Append: req.Append})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var observer progress.Observer
	if d.metrics != nil {
		observer = func() { d.metrics.AddLine(ctx) }
	}
	counter := progress.New(observer)

	log.Info("run started",
		"jobs", len(req.Jobs),
		"workers", d.workers,
		"output", req.OutputPath,
		"append", req.Append,
		"trace_id", telemetry.TraceID(ctx),
	)
	if d.onStart != nil {
		d.onStart(runID, counter)
	}

	reports := d.runJobs(ctx, req.Jobs, out, counter, log)

	runErr := reports.err
	if cerr := out.Close(); cerr != nil && runErr == nil {
		runErr = cerr
	}

	report := &RunReport{
		RunID:      runID,
		OutputPath: req.OutputPath,
		Reports:    reports.list,
		Lines:      counter.Value(),
		Duration:   time.Since(start),
		Cancelled:  runErr == nil && ctx.Err() != nil,
	}
	if written := out.Lines(); written != report.Lines {
		log.Warn("line count mismatch", "counter", report.Lines, "sink", written)
	}

	if runErr != nil {
		telemetry.RecordError(span, runErr)
		log.Error("run aborted",
			"error", runErr,
			"hint", dgerr.HintOf(runErr),
			"lines", report.Lines,
		)
		return report, runErr
	}

	telemetry.SetSpanOK(span)
	log.Info("run finished",
		"lines", report.Lines,
		"completed", report.Count(worker.StatusCompleted),
		"limit_reached", report.Count(worker.StatusLimitReached),
		"failed", report.Count(worker.StatusFailed),
		"cancelled", report.Cancelled,
		"duration", report.Duration.Round(time.Millisecond),
	)
	return report, nil
}

type jobResults struct {
	list []worker.Report
	err  error
}

func (d *Dispatcher) runJobs(ctx context.Context, jobs []mutation.Job, out Sink, counter *progress.Counter, log *logging.Logger) jobResults {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	reports := make([]worker.Report, len(jobs))
	var completed atomic.Int32

	workerOpts := []worker.Option{
		worker.WithLogger(log),
		worker.WithMetrics(d.metrics),
		worker.WithProgressEvery(d.progressEvery),
	}

	for i, job := range jobs {
		g.Go(func() error {
			if gctx.Err() != nil {
				reports[i] = worker.Report{Keyword: job.Keyword, Status: worker.StatusCancelled}
			} else {
				reports[i] = worker.Run(gctx, job, out, counter, workerOpts...)
			}

			n := completed.Add(1)
			if d.onProgress != nil {
				d.onProgress(int(n), len(jobs), &reports[i])
			}

			if reports[i].Fatal() {
				return reports[i].Err
			}
			return nil
		})
	}

	return jobResults{list: reports, err: g.Wait()}
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/AleutianAI/dictgen/cmd/dictgen/config"
	"github.com/AleutianAI/dictgen/pkg/ux"
	"github.com/AleutianAI/dictgen/services/dictgen/dedupe"
	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/AleutianAI/dictgen/services/dictgen/dispatch"
	"github.com/AleutianAI/dictgen/services/dictgen/mutation"
	"github.com/AleutianAI/dictgen/services/dictgen/progress"
	"github.com/AleutianAI/dictgen/services/dictgen/variation"
	"github.com/AleutianAI/dictgen/services/dictgen/worker"
	"github.com/spf13/cobra"
)

// generateOptions is the resolved input of one generation run.
type generateOptions struct {
	Jobs        []mutation.Job
	Output      string
	Workers     int
	Append      bool
	Deduplicate bool
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	opts, err := resolveGenerate(cmd, a.cfg, args)
	if err != nil {
		return err
	}

	if interactive || len(opts.Jobs) == 0 {
		if !ux.IsInteractive() {
			return dgerr.InvalidInput("generate", "no keywords given; pass -k, --jobs, or run in a terminal for the wizard")
		}
		ux.Title("dictgen")
		ux.Muted("Leave the keyword empty to start generating.")
		res, err := runWizard(ctx, newHuhPrompter(), opts.Output)
		if err != nil {
			return err
		}
		opts.Jobs = append(opts.Jobs, res.Jobs...)
		opts.Output = res.Output
		opts.Deduplicate = opts.Deduplicate || res.Deduplicate
	}

	if _, err := generate(ctx, a, opts); err != nil {
		return err
	}
	return nil
}

// resolveGenerate merges the config file, the jobs file and flags.
// Flags win over the config file.
func resolveGenerate(cmd *cobra.Command, cfg config.DictgenConfig, args []string) (generateOptions, error) {
	flags := cmd.Flags()
	opts := generateOptions{
		Output:      cfg.Output,
		Workers:     cfg.Processes,
		Append:      cfg.Append,
		Deduplicate: cfg.Deduplicate,
	}
	if flags.Changed("output") {
		opts.Output = outputPath
	}
	if flags.Changed("processes") {
		if processes <= 0 {
			return opts, dgerr.InvalidConfig("generate", "--processes must be positive, got %d", processes)
		}
		opts.Workers = processes
	}
	if flags.Changed("append") {
		opts.Append = appendOutput
	}
	if flags.Changed("deduplicate") {
		opts.Deduplicate = deduplicate
	}

	jobs, err := collectJobs(mflags, jobsFile, args)
	if err != nil {
		return opts, err
	}
	opts.Jobs = jobs
	return opts, nil
}

// collectJobs builds jobs from the jobs file followed by flag keywords.
func collectJobs(f mutationFlags, jobsPath string, args []string) ([]mutation.Job, error) {
	var jobs []mutation.Job
	if jobsPath != "" {
		fileJobs, skipped, err := config.LoadJobs(jobsPath)
		if err != nil {
			return nil, err
		}
		for _, serr := range skipped {
			ux.Warning(fmt.Sprintf("skipping job: %v", serr))
		}
		jobs = append(jobs, fileJobs...)
	}

	keywords := append(splitList(f.Keywords...), args...)
	if len(keywords) == 0 {
		return jobs, nil
	}

	cfg, err := f.config()
	if err != nil {
		return nil, err
	}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		job := mutation.Job{Keyword: kw, Config: cfg}
		if err := job.Validate(); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// config converts the flags to a mutation.Config.
func (f mutationFlags) config() (mutation.Config, error) {
	cfg := mutation.Config{
		Numbers:      f.Numbers,
		DigitCount:   f.Digits,
		SpecialChars: splitList(f.SpecialChars...),
		CaseMix:      f.CaseMix,
		Limit:        f.Limit,
	}
	if f.Years != "" {
		yr, err := variation.ParseYearRange(f.Years)
		if err != nil {
			return cfg, err
		}
		cfg.Years = &yr
	}
	if !f.Numbers && (f.Years != "" || f.Digits != 0) {
		ux.Warning("--years and --digits only apply with --numbers (-n)")
	}
	return cfg, cfg.Validate()
}

// generate runs the dispatcher, renders progress and results, and hands the
// file to the deduplicator when requested.
func generate(ctx context.Context, a *app, opts generateOptions) (*dispatch.RunReport, error) {
	spinner := ux.NewProgressSpinner("Generating", len(opts.Jobs), nil)

	d := dispatch.New(
		dispatch.WithWorkers(opts.Workers),
		dispatch.WithLogger(a.log),
		dispatch.WithMetrics(a.metrics),
		dispatch.WithStartHook(func(runID string, counter progress.Reader) {
			spinner.SetCounter(counter)
			spinner.Start()
		}),
		dispatch.WithProgressHook(func(completed, total int, last *worker.Report) {
			spinner.SetProgress(completed)
		}),
	)

	rep, err := d.Run(ctx, dispatch.RunRequest{
		Jobs:       opts.Jobs,
		OutputPath: opts.Output,
		Append:     opts.Append,
	})
	spinner.Stop()

	if rep != nil {
		printReport(rep)
	}
	if err != nil {
		ux.Error(fmt.Sprintf("generation aborted: %v", err))
		if hint := dgerr.HintOf(err); hint != "" {
			ux.Info(hint)
		}
		return rep, err
	}
	if rep.Cancelled {
		ux.Warning(fmt.Sprintf("generation cancelled; partial output kept in %s", rep.OutputPath))
		return rep, dgerr.ErrCancelled
	}

	ux.Muted("The wordlist may contain duplicates.")
	if opts.Deduplicate {
		runDedupeStep(ctx, a, rep.OutputPath)
	} else if ux.GetPersonality().ShowTips {
		ux.Box("Remove duplicates", strings.Join(dedupe.ManualCommands(rep.OutputPath), "\n"))
	}
	return rep, nil
}

// printReport shows one line per keyword and the run totals.
func printReport(rep *dispatch.RunReport) {
	for _, r := range rep.Reports {
		line := ux.KeywordLine{
			Keyword: r.Keyword,
			Status:  string(r.Status),
			Emitted: r.Emitted,
		}
		if r.Err != nil {
			line.Reason = r.Err.Error()
		}
		ux.KeywordResult(line)
	}
	ux.Summary(ux.RunTotals{
		Lines:     rep.Lines,
		Completed: rep.Count(worker.StatusCompleted),
		Limited:   rep.Count(worker.StatusLimitReached),
		Failed:    rep.Count(worker.StatusFailed),
		Cancelled: rep.Count(worker.StatusCancelled),
		Duration:  rep.Duration,
		Output:    rep.OutputPath,
	})
}

// runDedupeStep deduplicates path. Failures are reported with the manual
// commands and do not fail the run.
func runDedupeStep(ctx context.Context, a *app, path string) {
	ux.Warning("Deduplicating a very large wordlist can take a long time and a lot of memory.")

	spin := ux.NewSpinner("Removing duplicates").WithType(ux.SpinnerLine)
	spin.Start()
	out, err := dedupe.New(dedupe.WithLogger(a.log)).Run(ctx, path)
	if err != nil {
		spin.StopWithWarning(fmt.Sprintf("Removing duplicates failed: %v", err))
		ux.WarningBox("Run it manually", strings.Join(dedupe.ManualCommands(path), "\n"))
		return
	}
	spin.StopWithSuccess(fmt.Sprintf("Unique wordlist written to %s", out))
}

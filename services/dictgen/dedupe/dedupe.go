// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dedupe removes duplicate lines from a finished wordlist by handing
// the file to the platform's sort tool. Nothing is loaded into memory.
//
// The result is written next to the input as "<stem>_unique<ext>". The input
// is left untouched.
package dedupe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/AleutianAI/dictgen/pkg/logging"
)

// UniquePath returns "<stem>_unique<ext>" for input.
//
//	UniquePath("out/dictionary.txt") // "out/dictionary_unique.txt"
//	UniquePath("words")              // "words_unique"
func UniquePath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_unique" + ext
}

// Command is one external process invocation.
type Command struct {
	Name string
	Args []string
}

// String renders the command for display.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		if strings.ContainsAny(a, " \t'\"|") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// BuildCommand returns the deduplication command for goos.
//
// # Description
//
// Unix-likes use "sort -u -o OUT IN". Windows uses PowerShell
// Get-Content | Sort-Object -Unique | Set-Content. Sort-Object compares
// case-insensitively, so on Windows "Admin" and "admin" collapse to one line.
func BuildCommand(goos, input, output string) Command {
	if goos == "windows" {
		script := fmt.Sprintf("Get-Content -LiteralPath %s | Sort-Object -Unique | Set-Content -LiteralPath %s",
			psQuote(input), psQuote(output))
		return Command{Name: "powershell", Args: []string{"-NoProfile", "-NonInteractive", "-Command", script}}
	}
	return Command{Name: "sort", Args: []string{"-u", "-o", output, input}}
}

// ManualCommands returns shell lines a user can run by hand, one for
// Linux/macOS and one for PowerShell.
func ManualCommands(input string) []string {
	output := UniquePath(input)
	return []string{
		fmt.Sprintf("sort -u %q > %q", input, output),
		fmt.Sprintf("Get-Content %s | Sort-Object -Unique | Set-Content %s", psQuote(input), psQuote(output)),
	}
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// =============================================================================
// Runner
// =============================================================================

// commandResult is the captured output of one process.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for tests.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := commandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		return res, err
	}
	return res, nil
}

// =============================================================================
// Deduper
// =============================================================================

// Deduper runs the platform deduplication command.
type Deduper struct {
	runner commandRunner
	goos   string
	logger *logging.Logger
	stat   func(string) (os.FileInfo, error)
}

// Option configures a Deduper.
type Option func(*Deduper)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Deduper) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithGOOS overrides the target platform.
func WithGOOS(goos string) Option {
	return func(d *Deduper) { d.goos = goos }
}

// New creates a Deduper for the running platform.
func New(opts ...Option) *Deduper {
	d := &Deduper{
		runner: &execRunner{},
		goos:   runtime.GOOS,
		logger: logging.Nop(),
		stat:   os.Stat,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run deduplicates input into UniquePath(input).
//
// # Outputs
//
//   - string: Path of the deduplicated file.
//   - error: Missing input, or a *CommandError when the tool fails or is not
//     installed. ManualCommands gives the user a fallback.
func (d *Deduper) Run(ctx context.Context, input string) (string, error) {
	info, err := d.stat(input)
	if err != nil {
		return "", fmt.Errorf("dedupe input: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("dedupe input %s is a directory", input)
	}

	output := UniquePath(input)
	cmd := BuildCommand(d.goos, input, output)
	log := d.logger.With("input", input, "output", output)

	start := time.Now()
	log.Info("deduplicating", "command", cmd.String())

	res, err := d.runner.Run(ctx, cmd.Name, cmd.Args...)
	if err != nil {
		cmdErr := NewCommandError(cmd.String(), res.ExitCode, res.Stderr, err)
		log.Warn("deduplication failed", "error", cmdErr)
		return "", cmdErr
	}

	log.Info("deduplication finished", "duration", time.Since(start).Round(time.Millisecond))
	return output, nil
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging provides structured logging for dictgen.
//
// # Destinations
//
//	┌──────────────────────────────────────────────┐
//	│                    Logger                    │
//	│  ┌──────────┐  ┌────────────┐  ┌──────────┐  │
//	│  │  stderr  │  │  log file  │  │ exporter │  │
//	│  │ (text or │  │  (JSON,    │  │ (tests,  │  │
//	│  │   JSON)  │  │  optional) │  │ capture) │  │
//	│  └──────────┘  └────────────┘  └──────────┘  │
//	└──────────────────────────────────────────────┘
//
// Log lines go to stderr so they never mix with command output on stdout.
// When LogDir is set, a JSON copy is appended to "{service}_{date}.log".
//
// # Usage
//
// The CLI builds one Logger from flags and passes it down; no package keeps
// a global logger or verbosity flag.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug, // -v
//	    LogDir: "~/.dictgen/logs",
//	})
//	defer logger.Close()
//
//	kwLog := logger.With("keyword", "admin")
//	kwLog.Info("keyword finished", "emitted", 2004)
//
// Components that receive no logger use Nop().
//
// # Thread Safety
//
// Logger is safe for concurrent use.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity. Debug < Info < Warn < Error.
type Level int

const (
	// LevelDebug is per-keyword progress and pipeline detail (-v).
	LevelDebug Level = iota

	// LevelInfo is run start/finish and per-keyword summaries.
	LevelInfo

	// LevelWarn is a keyword that failed while the run continues.
	LevelWarn

	// LevelError is a fatal run failure.
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts debug, info, warn/warning, or error (any case).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures a Logger. The zero value logs Info+ as text to stderr.
type Config struct {
	// Level is the minimum level emitted.
	Level Level

	// LogDir enables a JSON log file "{Service}_{YYYY-MM-DD}.log" in this
	// directory, created with 0750 if missing. A leading ~ is expanded.
	LogDir string

	// Service is attached to every record. Default: "dictgen".
	Service string

	// JSON switches the console output to JSON. File output is always JSON.
	JSON bool

	// Quiet disables console output.
	Quiet bool

	// Output replaces stderr as the console destination.
	Output io.Writer

	// Exporter receives a copy of every emitted entry.
	Exporter LogExporter
}

// =============================================================================
// Export
// =============================================================================

// LogExporter receives structured entries in addition to the slog handlers.
//
// Export is called synchronously on the logging goroutine and must not block
// for long.
type LogExporter interface {
	Export(ctx context.Context, entry LogEntry) error
	Flush(ctx context.Context) error
	Close() error
}

// LogEntry is one exported record. Attrs include those added with With.
type LogEntry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Service   string
	Attrs     map[string]any
}

// =============================================================================
// Logger
// =============================================================================

// Logger wraps slog.Logger with an optional log file and exporter.
//
// # Resource Management
//
// Close the root logger to flush the exporter and close the log file.
// Child loggers from With share those resources and need no Close.
type Logger struct {
	slog     *slog.Logger
	config   Config
	attrs    []any
	file     *os.File
	exporter LogExporter
	mu       *sync.Mutex
}

// New builds a Logger from config.
//
// A log file that cannot be created is skipped with a warning on the console
// rather than failing the run.
func New(config Config) *Logger {
	if config.Service == "" {
		config.Service = "dictgen"
	}

	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}
	var handlers []slog.Handler

	console := config.Output
	if console == nil {
		console = os.Stderr
	}
	if !config.Quiet {
		if config.JSON {
			handlers = append(handlers, slog.NewJSONHandler(console, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(console, opts))
		}
	}

	logger := &Logger{
		config:   config,
		exporter: config.Exporter,
		mu:       &sync.Mutex{},
	}

	var fileErr error
	if config.LogDir != "" {
		logger.file, fileErr = openLogFile(config.LogDir, config.Service)
		if logger.file != nil {
			handlers = append(handlers, slog.NewJSONHandler(logger.file, opts))
		}
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.NewTextHandler(io.Discard, opts)
	case 1:
		handler = handlers[0]
	default:
		handler = &multiHandler{handlers: handlers}
	}
	handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})

	logger.slog = slog.New(handler)
	if fileErr != nil {
		logger.Warn("file logging disabled", "log_dir", config.LogDir, "error", fileErr)
	}
	return logger
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(Config{Quiet: true, Level: LevelError + 1})
}

func openLogFile(dir, service string) (*os.File, error) {
	dir = expandPath(dir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// Enabled reports whether level would be emitted.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.config.Level
}

// With returns a child logger that adds args to every record, including
// exported entries. The parent is unchanged.
//
// # Example
//
//	kwLog := logger.With("keyword", job.Keyword, "run_id", runID)
func (l *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)
	return &Logger{
		slog:     l.slog.With(args...),
		config:   l.config,
		attrs:    attrs,
		file:     l.file,
		exporter: l.exporter,
		mu:       l.mu,
	}
}

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close flushes the exporter and closes the log file.
// Returns the first error encountered.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error

	if l.exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.exporter.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush exporter: %w", err))
		}
		if err := l.exporter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close exporter: %w", err))
		}
		l.exporter = nil
	}

	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("sync log file: %w", err))
		}
		if err := l.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
		l.file = nil
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.slog.Log(context.Background(), level.toSlogLevel(), msg, args...)

	if l.exporter == nil {
		return
	}
	attrs := argsToMap(l.attrs)
	for k, v := range argsToMap(args) {
		attrs[k] = v
	}
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Service:   l.config.Service,
		Attrs:     attrs,
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = l.exporter.Export(ctx, entry)
}

// =============================================================================
// Multi-Handler
// =============================================================================

// multiHandler fans records out to the console and file handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// =============================================================================
// Helpers
// =============================================================================

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// argsToMap converts slog-style key/value args to a map. slog.Attr values
// are accepted too.
func argsToMap(args []any) map[string]any {
	result := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i++ {
		switch k := args[i].(type) {
		case slog.Attr:
			result[k.Key] = k.Value.Any()
		case string:
			if i+1 < len(args) {
				result[k] = args[i+1]
				i++
			}
		}
	}
	return result
}

// =============================================================================
// Capture
// =============================================================================

// BufferedExporter collects entries in memory for assertions in tests.
//
//	exp := logging.NewBufferedExporter()
//	logger := logging.New(logging.Config{Quiet: true, Exporter: exp})
//	logger.Info("keyword finished", "keyword", "admin")
//	exp.Entries()[0].Attrs["keyword"] // "admin"
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewBufferedExporter creates an empty BufferedExporter.
func NewBufferedExporter() *BufferedExporter {
	return &BufferedExporter{}
}

// Export appends entry.
func (e *BufferedExporter) Export(_ context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Flush is a no-op.
func (e *BufferedExporter) Flush(context.Context) error { return nil }

// Close is a no-op.
func (e *BufferedExporter) Close() error { return nil }

// Entries returns a copy of the collected entries.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LogEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Find returns the entries whose message equals msg.
func (e *BufferedExporter) Find(msg string) []LogEntry {
	var out []LogEntry
	for _, entry := range e.Entries() {
		if entry.Message == msg {
			out = append(out, entry)
		}
	}
	return out
}

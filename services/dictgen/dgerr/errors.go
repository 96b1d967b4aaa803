// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dgerr defines the error kinds shared by the dictionary generator.
//
// Every failure produced by the generator is classified as one of four kinds:
//
//   - ErrInvalidInput: empty or malformed keyword passed to a primitive
//   - ErrInvalidConfig: contradictory or out-of-range mutation settings
//   - ErrIOFailure: a file cannot be read, opened or appended to
//   - ErrCancelled: the run was interrupted by the user
//
// Callers classify with errors.Is against the sentinel:
//
//	if errors.Is(err, dgerr.ErrIOFailure) {
//	    // fatal for the whole run
//	}
package dgerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput indicates an empty or malformed keyword or word.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates contradictory or out-of-range settings.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrIOFailure indicates a file could not be read, opened or written.
	ErrIOFailure = errors.New("io failure")

	// ErrCancelled indicates a user-requested interrupt.
	ErrCancelled = errors.New("cancelled")
)

// Error is a classified generator error with optional keyword and path context.
//
// # Description
//
// Error carries one of the sentinel kinds plus the operation that failed.
// errors.Is matches both the Kind and the wrapped cause, so callers can test
// for dgerr.ErrIOFailure and for os.ErrPermission on the same value.
type Error struct {
	// Kind is one of the package sentinels.
	Kind error

	// Op names the failing operation, e.g. "append" or "case combinations".
	Op string

	// Keyword is the keyword being processed, if any.
	Keyword string

	// Path is the file involved, if any.
	Path string

	// Hint is a remediation suggestion shown to the user.
	Hint string

	// Err is the underlying cause.
	Err error
}

// Error formats the error as "kind: op: keyword=... path=...: cause".
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	}
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Keyword != "" {
		fmt.Fprintf(&b, " keyword=%q", e.Keyword)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " path=%s", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// InvalidInput builds an ErrInvalidInput error.
func InvalidInput(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Op: op, Err: fmt.Errorf(format, args...)}
}

// InvalidConfig builds an ErrInvalidConfig error.
func InvalidConfig(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidConfig, Op: op, Err: fmt.Errorf(format, args...)}
}

// OutputHint is the remediation shown for output file failures.
const OutputHint = "check write permissions on the output directory and available disk space"

// IOFailure builds an ErrIOFailure error for path.
func IOFailure(op, path string, err error) error {
	return &Error{Kind: ErrIOFailure, Op: op, Path: path, Err: err}
}

// OutputFailure is IOFailure for the output file, carrying OutputHint.
func OutputFailure(op, path string, err error) error {
	return &Error{Kind: ErrIOFailure, Op: op, Path: path, Hint: OutputHint, Err: err}
}

// WithKeyword returns err annotated with keyword when err is an *Error.
// Other errors are wrapped with the keyword as context.
func WithKeyword(err error, keyword string) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		cp := *de
		cp.Keyword = keyword
		return &cp
	}
	return fmt.Errorf("keyword %q: %w", keyword, err)
}

// HintOf returns the remediation hint carried by err, if any.
func HintOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Hint
	}
	return ""
}

// IsFatal reports whether err must stop the whole run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrIOFailure)
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package sink is the shared, append-only output file of a generation run.
package sink

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/AleutianAI/dictgen/services/dictgen/lock"
)

// ErrClosed is wrapped by Append after Close.
var ErrClosed = errors.New("sink is closed")

// Options controls how the output file is opened.
type Options struct {
	// Append keeps existing content instead of truncating at open.
	Append bool

	// Locker provides cross-process exclusion. nil uses lock.New().
	Locker lock.FileLocker

	// Perm is the mode for a newly created file. 0 uses 0644.
	Perm os.FileMode
}

// File is the shared output sink.
//
// # Description
//
// Every Append writes exactly one line terminated by "\n" while holding both
// an in-process mutex and an exclusive OS file lock, so no two lines ever
// interleave, whether written by goroutines of this run or by another process
// appending to the same path. The file is opened with O_APPEND.
//
// # Thread Safety
//
// Safe for concurrent use.
type File struct {
	path   string
	locker lock.FileLocker

	mu     sync.Mutex
	f      *os.File
	closed bool

	lines atomic.Int64
}

// Open prepares the sink at path.
//
// # Description
//
// Creates missing parent directories, creates the file if needed, and
// truncates it unless opts.Append is set. Truncation happens under the file
// lock, on a separate handle, before the shared append handle is opened.
//
// # Outputs
//
//   - *File: Open sink. Caller must Close it.
//   - error: ErrInvalidInput for an empty path, ErrIOFailure otherwise.
func Open(path string, opts Options) (*File, error) {
	if path == "" {
		return nil, dgerr.InvalidInput("open sink", "output path is empty")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, dgerr.OutputFailure("create output directory", dir, err)
		}
	}

	perm := opts.Perm
	if perm == 0 {
		perm = 0o644
	}
	locker := opts.Locker
	if locker == nil {
		locker = lock.New()
	}

	if !opts.Append {
		if err := truncate(path, perm, locker); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, appendFlags, perm)
	if err != nil {
		return nil, dgerr.OutputFailure("open output", path, err)
	}
	return &File{path: path, locker: locker, f: f}, nil
}

// appendFlags opens the shared handle. O_RDWR keeps read access on the
// handle: on Windows an O_WRONLY|O_APPEND handle carries only
// FILE_APPEND_DATA, which LockFileEx rejects.
const appendFlags = os.O_CREATE | os.O_RDWR | os.O_APPEND

// truncate empties path through its own write handle, under the file lock.
// An append-only handle cannot truncate on Windows.
func truncate(path string, perm os.FileMode, locker lock.FileLocker) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, perm)
	if err != nil {
		return dgerr.OutputFailure("open output", path, err)
	}
	defer f.Close()

	if err := locker.Lock(f); err != nil {
		return dgerr.OutputFailure("lock output", path, err)
	}
	defer locker.Unlock(f)

	if err := f.Truncate(0); err != nil {
		return dgerr.OutputFailure("truncate output", path, err)
	}
	return nil
}

// Append writes line followed by "\n" as one write.
//
// # Outputs
//
//   - error: ErrIOFailure carrying the path. The caller must treat it as
//     fatal for the whole run.
func (s *File) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return dgerr.OutputFailure("append", s.path, ErrClosed)
	}

	if err := s.locker.Lock(s.f); err != nil {
		return dgerr.OutputFailure("lock output", s.path, err)
	}
	_, werr := s.f.WriteString(line + "\n")
	uerr := s.locker.Unlock(s.f)

	if werr != nil {
		return dgerr.OutputFailure("append", s.path, werr)
	}
	if uerr != nil {
		return dgerr.OutputFailure("unlock output", s.path, uerr)
	}

	s.lines.Add(1)
	return nil
}

// Lines returns how many lines this sink has appended.
func (s *File) Lines() int64 {
	return s.lines.Load()
}

// Close flushes to stable storage and closes the file. Idempotent.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	serr := s.f.Sync()
	cerr := s.f.Close()
	if serr != nil {
		return dgerr.OutputFailure("sync output", s.path, serr)
	}
	if cerr != nil {
		return dgerr.OutputFailure("close output", s.path, cerr)
	}
	return nil
}

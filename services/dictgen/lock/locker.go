// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lock provides advisory whole-file locks that hold across processes.
//
// The output sink takes one of these locks around every line it appends, so
// separate dictgen processes writing the same file never interleave a line.
package lock

import (
	"errors"
	"os"
)

// ErrFileLocked is returned by TryLock when another holder owns the lock.
var ErrFileLocked = errors.New("file is locked by another holder")

// FileLocker abstracts platform-specific file locking operations.
//
// # Description
//
// Provides a unified interface for exclusive file locks across Unix and
// Windows. Unix uses flock(2) through golang.org/x/sys/unix, Windows uses
// LockFileEx through golang.org/x/sys/windows.
//
// Locks are advisory on Unix: they only exclude other holders that also take
// the lock. Every writer of a dictionary file goes through the sink, which
// always does.
//
// # Thread Safety
//
// Implementations are stateless and safe for concurrent use. The lock is
// owned by the open file description, so two goroutines sharing one *os.File
// do not exclude each other; callers pair it with an in-process mutex.
type FileLocker interface {
	// Lock blocks until an exclusive lock on f is acquired.
	Lock(f *os.File) error

	// TryLock acquires an exclusive lock without waiting.
	//
	// # Outputs
	//
	//   - error: nil on success, ErrFileLocked if another holder has it.
	TryLock(f *os.File) error

	// Unlock releases the lock. Safe to call when not locked.
	Unlock(f *os.File) error
}

// New returns the FileLocker for the current platform.
func New() FileLocker {
	return newPlatformLocker()
}

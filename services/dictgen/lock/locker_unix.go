// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

//go:build unix

package lock

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// UnixFileLocker implements FileLocker using flock(2).
//
// # Description
//
// Locks are:
//   - Whole-file and exclusive
//   - Released on Unlock, on close of the descriptor, or on process exit
//   - Interrupted waits (EINTR) are retried
type UnixFileLocker struct{}

// Lock waits for LOCK_EX.
func (l *UnixFileLocker) Lock(f *os.File) error {
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err
	}
}

// TryLock uses LOCK_EX|LOCK_NB and maps EWOULDBLOCK to ErrFileLocked.
func (l *UnixFileLocker) TryLock(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		return ErrFileLocked
	}
	return err
}

// Unlock uses LOCK_UN.
func (l *UnixFileLocker) Unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

func newPlatformLocker() FileLocker {
	return &UnixFileLocker{}
}

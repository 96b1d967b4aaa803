// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

//go:build windows

package lock

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// Lock the whole addressable range so appends past the current end are
// covered too.
const (
	rangeLow  = ^uint32(0)
	rangeHigh = ^uint32(0)
)

// WindowsFileLocker implements FileLocker using LockFileEx.
type WindowsFileLocker struct{}

// Lock waits for an exclusive lock.
func (l *WindowsFileLocker) Lock(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, rangeLow, rangeHigh, ol)
}

// TryLock adds LOCKFILE_FAIL_IMMEDIATELY and maps ERROR_LOCK_VIOLATION to
// ErrFileLocked.
func (l *WindowsFileLocker) TryLock(f *os.File) error {
	ol := new(windows.Overlapped)
	err := windows.LockFileEx(windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, rangeLow, rangeHigh, ol)
	if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
		return ErrFileLocked
	}
	return err
}

// Unlock releases the range taken by Lock or TryLock.
func (l *WindowsFileLocker) Unlock(f *os.File) error {
	ol := new(windows.Overlapped)
	err := windows.UnlockFileEx(windows.Handle(f.Fd()), 0, rangeLow, rangeHigh, ol)
	if errors.Is(err, windows.ERROR_NOT_LOCKED) {
		return nil
	}
	return err
}

func newPlatformLocker() FileLocker {
	return &WindowsFileLocker{}
}

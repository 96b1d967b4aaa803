// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lock

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTwice(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")

	a, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	b, err := os.OpenFile(path, os.O_RDWR, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	return a, b
}

func TestFileLocker_TryLockConflict(t *testing.T) {
	a, b := openTwice(t)
	locker := New()

	require.NoError(t, locker.Lock(a))
	assert.ErrorIs(t, locker.TryLock(b), ErrFileLocked)

	require.NoError(t, locker.Unlock(a))
	require.NoError(t, locker.TryLock(b))
	require.NoError(t, locker.Unlock(b))
}

func TestFileLocker_LockWaitsForRelease(t *testing.T) {
	a, b := openTwice(t)
	locker := New()

	require.NoError(t, locker.Lock(a))

	acquired := make(chan error, 1)
	go func() {
		acquired <- locker.Lock(b)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock returned while the first holder still owned the lock")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, locker.Unlock(a))

	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("second Lock did not return after release")
	}
	require.NoError(t, locker.Unlock(b))
}

func TestFileLocker_UnlockWithoutLock(t *testing.T) {
	a, _ := openTwice(t)
	assert.NoError(t, New().Unlock(a))
}

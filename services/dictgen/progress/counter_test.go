// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package progress

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_StartsAtZero(t *testing.T) {
	assert.Equal(t, int64(0), New().Value())
}

func TestCounter_ConcurrentIncrements(t *testing.T) {
	var observed atomic.Int64
	c := New(func() { observed.Add(1) }, nil)

	const goroutines, perGoroutine = 16, 1000
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				c.Increment()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(goroutines*perGoroutine), c.Value())
	assert.Equal(t, int64(goroutines*perGoroutine), observed.Load())
}

func TestCounter_SatisfiesReader(t *testing.T) {
	var r Reader = New()
	assert.Equal(t, int64(0), r.Value())
}

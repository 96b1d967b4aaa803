// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package progress holds the run-wide count of emitted strings.
package progress

import "sync/atomic"

// Reader is the read side of a Counter, handed to progress renderers.
type Reader interface {
	Value() int64
}

// Observer is notified after every increment, e.g. to feed a metric.
// Observers run on the incrementing goroutine and must not block.
type Observer func()

// Counter is a shared, increment-only count of emitted strings.
//
// # Description
//
// One Counter exists per run and starts at 0. Workers call Increment once per
// string handed to the sink. Renderers poll Value. The count is independent of
// the sink's lock; it never blocks an append.
//
// # Thread Safety
//
// Safe for concurrent use. Observers are fixed at construction.
type Counter struct {
	n         atomic.Int64
	observers []Observer
}

// New creates a Counter at 0. Nil observers are ignored.
func New(observers ...Observer) *Counter {
	c := &Counter{}
	for _, o := range observers {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
	return c
}

// Increment adds one.
func (c *Counter) Increment() {
	c.n.Add(1)
	for _, o := range c.observers {
		o()
	}
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	return c.n.Load()
}

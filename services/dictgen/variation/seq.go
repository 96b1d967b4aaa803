// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package variation

import "iter"

// FlatMap applies dec to every element of seq and concatenates the results
// depth-first. Stopping the outer range stops the inner sequence too.
func FlatMap(seq iter.Seq[string], dec Decorator) iter.Seq[string] {
	return func(yield func(string) bool) {
		for s := range seq {
			for v := range dec(s) {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Take yields at most n elements of seq. n <= 0 means no limit.
func Take[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	if n <= 0 {
		return seq
	}
	return func(yield func(T) bool) {
		count := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}

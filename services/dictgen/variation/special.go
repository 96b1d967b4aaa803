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

import (
	"iter"
	"slices"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
)

// NewSpecial validates a special-character set and returns a Decorator.
//
// The set is copied; later changes to chars do not affect the decorator.
// Returns ErrInvalidConfig when chars is empty or contains an empty entry.
// Callers with no configured characters should use Passthrough instead.
func NewSpecial(chars []string) (Decorator, error) {
	if len(chars) == 0 {
		return nil, dgerr.InvalidConfig("special decorations", "special character set is empty")
	}
	for i, c := range chars {
		if c == "" {
			return nil, dgerr.InvalidConfig("special decorations", "special character %d is empty", i)
		}
	}
	set := slices.Clone(chars)

	return func(word string) iter.Seq[string] {
		return func(yield func(string) bool) {
			if !yield(word) {
				return
			}
			for _, c := range set {
				if !yield(word+c) || !yield(c+word) || !yield(word+c+word) {
					return
				}
			}
		}
	}, nil
}

// SpecialCharDecorations yields word, then word+c, c+word, word+c+word for
// each c in chars, in input order.
func SpecialCharDecorations(word string, chars []string) (iter.Seq[string], error) {
	dec, err := NewSpecial(chars)
	if err != nil {
		return nil, err
	}
	return dec(word), nil
}

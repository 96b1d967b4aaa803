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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
)

// BasicCaseForms yields word, lower(word), upper(word) and capitalized(word).
//
// # Description
//
// Always yields exactly four strings in that order. Duplicates are kept:
// for "admin" the first two outputs are both "admin".
//
// # Inputs
//
//   - word: The base word. May be empty, in which case four empty strings
//     are produced.
//
// # Outputs
//
//   - iter.Seq[string]: Lazy sequence of the four case forms.
func BasicCaseForms(word string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(word) {
			return
		}
		if !yield(strings.ToLower(word)) {
			return
		}
		if !yield(strings.ToUpper(word)) {
			return
		}
		yield(Capitalize(word))
	}
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// AllCaseCombinations yields every per-rune upper/lower assignment of word.
//
// # Description
//
// For a word of n runes the sequence has 2^n elements. The order is the
// lexicographic product over rune positions with lower before upper and the
// last rune varying fastest: "ab" yields ab, aB, Ab, AB. Viewed as an index
// k in [0, 2^n), bit n-1-i of k selects upper case for rune i. This is the
// reverse of numbering bits by rune position (bit i for rune i): the low bit
// drives the last rune, so "abc" at k=1 is "abC", not "Abc".
//
// The enumeration runs as an odometer over a per-rune flag slice, so there
// is no width limit on n. Output size is exponential; bound it with a limit.
//
// # Inputs
//
//   - word: The base word. Must be non-empty.
//
// # Outputs
//
//   - iter.Seq[string]: Lazy sequence of case combinations.
//   - error: ErrInvalidInput when word is empty.
func AllCaseCombinations(word string) (iter.Seq[string], error) {
	if word == "" {
		return nil, dgerr.InvalidInput("case combinations", "word is empty")
	}

	runes := []rune(word)
	lower := make([]rune, len(runes))
	upper := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
		upper[i] = unicode.ToUpper(r)
	}

	return func(yield func(string) bool) {
		n := len(runes)
		flags := make([]bool, n)
		buf := make([]rune, n)
		copy(buf, lower)

		for {
			if !yield(string(buf)) {
				return
			}

			// advance the odometer from the last position
			i := n - 1
			for i >= 0 && flags[i] {
				flags[i] = false
				buf[i] = lower[i]
				i--
			}
			if i < 0 {
				return
			}
			flags[i] = true
			buf[i] = upper[i]
		}
	}, nil
}

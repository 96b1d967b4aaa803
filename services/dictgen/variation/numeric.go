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
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
)

// MaxDigits is the widest zero-padded number range accepted (10^18 fits int64).
const MaxDigits = 18

// YearRange is an inclusive range of years.
type YearRange struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// Len returns the number of years in the range, or 0 if inverted.
func (y YearRange) Len() int {
	if y.End < y.Start {
		return 0
	}
	return y.End - y.Start + 1
}

// String formats the range as "START-END".
func (y YearRange) String() string {
	return fmt.Sprintf("%d-%d", y.Start, y.End)
}

// ParseYearRange parses "START-END", e.g. "1990-2025".
func ParseYearRange(s string) (YearRange, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return YearRange{}, dgerr.InvalidConfig("years", "%q is not in START-END form", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return YearRange{}, dgerr.InvalidConfig("years", "start year %q: %v", start, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return YearRange{}, dgerr.InvalidConfig("years", "end year %q: %v", end, err)
	}
	r := YearRange{Start: a, End: b}
	if r.Start > r.End {
		return YearRange{}, dgerr.InvalidConfig("years", "start year %d is after end year %d", a, b)
	}
	return r, nil
}

// Decorator expands one word into a lazy sequence of variants.
type Decorator func(word string) iter.Seq[string]

// Passthrough is the Decorator used when a stage is disabled: it yields the
// word unchanged, once.
func Passthrough(word string) iter.Seq[string] {
	return func(yield func(string) bool) {
		yield(word)
	}
}

// NewNumeric validates numeric decoration parameters and returns a Decorator.
//
// # Description
//
// digits == 0 means "not set". When years is non-nil, its inclusive range is
// used; when digits > 0, the zero-padded range [0, 10^digits) is used. When
// neither is set the decorator yields only the word itself.
//
// # Inputs
//
//   - digits: Zero-padded width, 0 (unset) or 1..MaxDigits.
//   - years: Optional inclusive year range.
//
// # Outputs
//
//   - Decorator: Validated decorator.
//   - error: ErrInvalidConfig when digits is out of range, the year range is
//     inverted, or both digits and years are set.
func NewNumeric(digits int, years *YearRange) (Decorator, error) {
	if digits != 0 && years != nil {
		return nil, dgerr.InvalidConfig("numeric decorations", "digits and years are mutually exclusive")
	}
	if digits < 0 || digits > MaxDigits {
		return nil, dgerr.InvalidConfig("numeric decorations", "digit count %d must be between 1 and %d", digits, MaxDigits)
	}
	if years != nil && years.Start > years.End {
		return nil, dgerr.InvalidConfig("numeric decorations", "year range %s is inverted", years)
	}

	var numbers func(yield func(string) bool) bool
	switch {
	case years != nil:
		start, end := years.Start, years.End
		numbers = func(yield func(string) bool) bool {
			for y := start; y <= end; y++ {
				if !yield(strconv.Itoa(y)) {
					return false
				}
			}
			return true
		}
	case digits > 0:
		width := digits
		limit := pow10(width)
		numbers = func(yield func(string) bool) bool {
			for i := int64(0); i < limit; i++ {
				if !yield(zeroPad(i, width)) {
					return false
				}
			}
			return true
		}
	}

	return func(word string) iter.Seq[string] {
		return func(yield func(string) bool) {
			if !yield(word) {
				return
			}
			if numbers == nil {
				return
			}
			numbers(func(num string) bool {
				return yield(word+num) &&
					yield(num+word) &&
					yield(word+"_"+num) &&
					yield(num+"_"+word) &&
					yield(word+num+word)
			})
		}
	}, nil
}

// NumericDecorations yields word, then five decorations per number.
//
// # Description
//
// For each number n the order is: word+n, n+word, word_n, n_word,
// word+n+word. See NewNumeric for parameter semantics.
//
// # Example
//
//	seq, _ := NumericDecorations("abc", 2, nil)
//	// abc, abc00, 00abc, abc_00, 00_abc, abc00abc, abc01, ...
func NumericDecorations(word string, digits int, years *YearRange) (iter.Seq[string], error) {
	dec, err := NewNumeric(digits, years)
	if err != nil {
		return nil, err
	}
	return dec(word), nil
}

// NumberCount returns how many numbers the parameters enumerate.
func NumberCount(digits int, years *YearRange) int64 {
	switch {
	case years != nil:
		return int64(years.Len())
	case digits > 0 && digits <= MaxDigits:
		return pow10(digits)
	default:
		return 0
	}
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

func zeroPad(v int64, width int) string {
	s := strconv.FormatInt(v, 10)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

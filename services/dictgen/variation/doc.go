// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package variation provides the pure string primitives used to mutate keywords.
//
// Every primitive returns a lazy iter.Seq[string]. Nothing is materialized:
// the next variant is computed only when the consumer asks for it, and a
// consumer that stops ranging (break, or yield returning false) abandons the
// rest of the sequence immediately. This is what keeps an explosive
// expansion such as 2^n case combinations bounded by the caller's limit.
//
// # Primitives
//
//   - BasicCaseForms: word, lower, upper, capitalized (always 4)
//   - AllCaseCombinations: every per-rune upper/lower assignment (2^n)
//   - NumericDecorations: years or zero-padded numbers around the word
//   - SpecialCharDecorations: special characters around the word
//
// Numeric and special decorations are also available as validated
// Decorator values (NewNumeric, NewSpecial) so a pipeline checks its
// parameters once per keyword rather than once per input string.
//
// # Thread Safety
//
// All functions are stateless. Each returned sequence owns its iteration
// state, so the same Decorator may be applied concurrently from many workers.
package variation

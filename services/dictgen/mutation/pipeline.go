// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package mutation

import (
	"iter"
	"math/big"
	"unicode/utf8"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/AleutianAI/dictgen/services/dictgen/variation"
)

// Expand builds the lazy variant sequence for one keyword.
//
// # Description
//
// Stages run in a fixed order: case forms, then numeric decorations, then
// special-character decorations. Each disabled stage is a passthrough. The
// stages nest depth-first, so the order of the output is fully determined by
// the keyword and cfg. When cfg.Limit > 0 the sequence stops after Limit
// strings and nothing beyond that point is computed.
//
// Duplicate values are not removed.
//
// # Inputs
//
//   - keyword: Non-empty seed word.
//   - cfg: Mutation settings. Validated here.
//
// # Outputs
//
//   - iter.Seq[string]: Single-use-safe sequence; ranging it twice replays the
//     same strings.
//   - error: ErrInvalidInput for an empty keyword, ErrInvalidConfig for bad
//     settings. No sequence is returned on error.
//
// # Example
//
//	seq, _ := Expand("admin", Config{})
//	// admin, admin, ADMIN, Admin
func Expand(keyword string, cfg Config) (iter.Seq[string], error) {
	if err := (Job{Keyword: keyword, Config: cfg}).Validate(); err != nil {
		return nil, err
	}

	var cases iter.Seq[string]
	if cfg.CaseMix {
		seq, err := variation.AllCaseCombinations(keyword)
		if err != nil {
			return nil, dgerr.WithKeyword(err, keyword)
		}
		cases = seq
	} else {
		cases = variation.BasicCaseForms(keyword)
	}

	numeric := variation.Decorator(variation.Passthrough)
	if cfg.Numbers {
		dec, err := variation.NewNumeric(cfg.DigitCount, cfg.Years)
		if err != nil {
			return nil, dgerr.WithKeyword(err, keyword)
		}
		numeric = dec
	}

	special := variation.Decorator(variation.Passthrough)
	if len(cfg.SpecialChars) > 0 {
		dec, err := variation.NewSpecial(cfg.SpecialChars)
		if err != nil {
			return nil, dgerr.WithKeyword(err, keyword)
		}
		special = dec
	}

	seq := variation.FlatMap(variation.FlatMap(cases, numeric), special)
	return variation.Take(seq, cfg.Limit), nil
}

// Count returns the exact number of strings Expand would emit.
//
// # Description
//
// The count is case forms x numeric fan-out x special fan-out, capped at
// cfg.Limit when a limit is set. big.Int is used because case mixing on a long
// keyword overflows any fixed-width integer. cfg is not validated; call
// Config.Validate first.
//
// # Example
//
//	Count("admin", Config{Numbers: true, DigitCount: 2})
//	// 4 * (1 + 5*100) = 2004
func Count(keyword string, cfg Config) *big.Int {
	total := big.NewInt(4)
	if cfg.CaseMix {
		total = new(big.Int).Lsh(big.NewInt(1), uint(utf8.RuneCountInString(keyword)))
	}

	if cfg.Numbers {
		n := variation.NumberCount(cfg.DigitCount, cfg.Years)
		fan := new(big.Int).Mul(big.NewInt(n), big.NewInt(5))
		total.Mul(total, fan.Add(fan, big.NewInt(1)))
	}

	if k := len(cfg.SpecialChars); k > 0 {
		total.Mul(total, big.NewInt(int64(1+3*k)))
	}

	if cfg.Limit > 0 {
		limit := big.NewInt(int64(cfg.Limit))
		if total.Cmp(limit) > 0 {
			return limit
		}
	}
	return total
}

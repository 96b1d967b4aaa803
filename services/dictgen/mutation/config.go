// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package mutation composes variation primitives into one lazy expansion per
// keyword and enforces the per-keyword output limit.
package mutation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/AleutianAI/dictgen/services/dictgen/variation"
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// configValidate is the validator instance for mutation settings.
// Initialized in init() with the cross-field rules.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	configValidate.RegisterStructValidation(validateConfigStruct, Config{})
}

// validateConfigStruct enforces rules that span more than one field.
//
// # Description
//
// DigitCount and Years select the number source for the numeric stage and
// are mutually exclusive. Setting both is rejected on every input path; no
// precedence is applied. An inverted year range is rejected as well.
func validateConfigStruct(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)

	if c.DigitCount != 0 && c.Years != nil {
		sl.ReportError(c.Years, "Years", "years", "excluded_with_digits", "")
	}
	if c.Years != nil && c.Years.Start > c.Years.End {
		sl.ReportError(c.Years, "Years", "years", "ordered_range", c.Years.String())
	}
}

// =============================================================================
// Config
// =============================================================================

// Config is the strongly typed set of mutation options for one keyword.
//
// The zero value is valid and produces the four basic case forms only.
type Config struct {
	// Numbers enables the numeric decoration stage.
	Numbers bool `yaml:"numbers" json:"numbers"`

	// DigitCount selects zero-padded numbers [0, 10^DigitCount). 0 = unset.
	DigitCount int `yaml:"digits" json:"digits" validate:"gte=0,lte=18"`

	// Years selects an inclusive year range. Mutually exclusive with DigitCount.
	Years *variation.YearRange `yaml:"years,omitempty" json:"years,omitempty"`

	// SpecialChars are the decoration tokens. Empty disables the stage.
	SpecialChars []string `yaml:"special_chars,omitempty" json:"special_chars,omitempty" validate:"omitempty,dive,required"`

	// CaseMix enumerates all 2^n case combinations instead of the basic four.
	CaseMix bool `yaml:"case_mix" json:"case_mix"`

	// Limit caps the strings emitted for this keyword. 0 = unlimited.
	Limit int `yaml:"limit" json:"limit" validate:"gte=0"`
}

// Validate checks field ranges and cross-field rules.
//
// # Outputs
//
//   - error: nil if valid, otherwise an ErrInvalidConfig error listing every
//     offending field.
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dgerr.InvalidConfig("validate", "%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return dgerr.InvalidConfig("validate", "%s", strings.Join(msgs, "; "))
}

// Summary renders the config for log lines.
func (c Config) Summary() string {
	var parts []string
	if c.CaseMix {
		parts = append(parts, "case=mix")
	} else {
		parts = append(parts, "case=basic")
	}
	if c.Numbers {
		switch {
		case c.Years != nil:
			parts = append(parts, "years="+c.Years.String())
		case c.DigitCount > 0:
			parts = append(parts, fmt.Sprintf("digits=%d", c.DigitCount))
		default:
			parts = append(parts, "numbers=none")
		}
	}
	if len(c.SpecialChars) > 0 {
		parts = append(parts, "special="+strings.Join(c.SpecialChars, ""))
	}
	if c.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit=%d", c.Limit))
	}
	return strings.Join(parts, " ")
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "excluded_with_digits":
		return "digits and years cannot both be set"
	case "ordered_range":
		return fmt.Sprintf("year range %s starts after it ends", fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Namespace())
	default:
		return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
}

// =============================================================================
// Job
// =============================================================================

// Job is one keyword with its resolved configuration; the unit of dispatch.
type Job struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Config  Config `yaml:",inline" json:"config"`
}

// Validate checks the keyword and the config.
//
// An empty keyword is ErrInvalidInput; config problems are ErrInvalidConfig.
func (j Job) Validate() error {
	if j.Keyword == "" {
		return dgerr.InvalidInput("validate", "keyword is empty")
	}
	if err := j.Config.Validate(); err != nil {
		return dgerr.WithKeyword(err, j.Keyword)
	}
	return nil
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AleutianAI/dictgen/pkg/ux"
	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/AleutianAI/dictgen/services/dictgen/mutation"
	"github.com/AleutianAI/dictgen/services/dictgen/variation"
	"github.com/charmbracelet/huh"
)

const (
	numberKindYears  = "years"
	numberKindDigits = "digits"
)

// keywordAnswers is what the wizard collects for one keyword, as typed.
type keywordAnswers struct {
	Keyword    string
	Numbers    bool
	NumberKind string
	Years      string
	Digits     string
	Special    string
	CaseMix    bool
	Limit      string
}

// job converts the answers into a validated mutation.Job.
func (a keywordAnswers) job() (mutation.Job, error) {
	job := mutation.Job{
		Keyword: strings.TrimSpace(a.Keyword),
		Config: mutation.Config{
			Numbers:      a.Numbers,
			CaseMix:      a.CaseMix,
			SpecialChars: splitList(a.Special),
		},
	}

	if a.Numbers {
		switch a.NumberKind {
		case numberKindYears:
			yr, err := variation.ParseYearRange(strings.TrimSpace(a.Years))
			if err != nil {
				return job, dgerr.WithKeyword(err, job.Keyword)
			}
			job.Config.Years = &yr
		case numberKindDigits:
			d, err := parsePositive(a.Digits)
			if err != nil || d == 0 {
				return job, dgerr.WithKeyword(dgerr.InvalidConfig("wizard", "digits must be a positive integer, got %q", a.Digits), job.Keyword)
			}
			job.Config.DigitCount = d
		default:
			job.Config.Numbers = false
		}
	}

	limit, err := parsePositive(a.Limit)
	if err != nil {
		return job, dgerr.WithKeyword(dgerr.InvalidConfig("wizard", "limit must be a positive integer or empty, got %q", a.Limit), job.Keyword)
	}
	job.Config.Limit = limit

	return job, job.Validate()
}

// splitList splits comma separated values and drops blank entries. A value
// that is exactly "," is kept as the comma itself.
func splitList(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) == "," {
			out = append(out, ",")
			continue
		}
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parsePositive parses an optional positive integer. Empty is 0.
func parsePositive(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}

// =============================================================================
// Wizard
// =============================================================================

// prompter asks the wizard questions.
type prompter interface {
	// Output asks for the wordlist path, offering current as the default.
	Output(ctx context.Context, current string) (string, error)

	// Keyword asks for the next keyword and its options. more is false once
	// the user is done adding keywords.
	Keyword(ctx context.Context, index int) (answers keywordAnswers, more bool, err error)

	// Deduplicate asks whether to remove duplicates after generation.
	Deduplicate(ctx context.Context) (bool, error)
}

// wizardResult is everything the wizard collected.
type wizardResult struct {
	Output      string
	Jobs        []mutation.Job
	Deduplicate bool
}

// runWizard collects the output path, any number of keywords, and the
// deduplication choice.
func runWizard(ctx context.Context, p prompter, output string) (wizardResult, error) {
	var res wizardResult

	out, err := p.Output(ctx, output)
	if err != nil {
		return res, err
	}
	res.Output = strings.TrimSpace(out)
	if res.Output == "" {
		res.Output = output
	}

	for i := 0; ; i++ {
		answers, more, err := p.Keyword(ctx, i)
		if err != nil {
			return res, err
		}
		if !more {
			break
		}
		job, err := answers.job()
		if err != nil {
			ux.Warning(fmt.Sprintf("skipping keyword: %v", err))
			continue
		}
		res.Jobs = append(res.Jobs, job)
	}
	if len(res.Jobs) == 0 {
		return res, dgerr.InvalidInput("wizard", "no keywords entered")
	}

	res.Deduplicate, err = p.Deduplicate(ctx)
	return res, err
}

// =============================================================================
// huh Prompter
// =============================================================================

// huhPrompter asks the questions with huh forms.
type huhPrompter struct {
	accessible bool
}

func newHuhPrompter() *huhPrompter {
	return &huhPrompter{accessible: ux.GetPersonality().Level == ux.PersonalityMinimal}
}

func (h *huhPrompter) run(ctx context.Context, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(h.accessible).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return dgerr.ErrCancelled
	}
	return err
}

func (h *huhPrompter) Output(ctx context.Context, current string) (string, error) {
	out := current
	err := h.run(ctx, huh.NewGroup(
		huh.NewInput().
			Title("Output file").
			Placeholder(current).
			Value(&out),
	))
	return out, err
}

func (h *huhPrompter) Keyword(ctx context.Context, index int) (keywordAnswers, bool, error) {
	var a keywordAnswers
	err := h.run(ctx, huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Keyword #%d", index+1)).
			Description("Leave empty to start generating").
			Value(&a.Keyword),
	))
	if err != nil || strings.TrimSpace(a.Keyword) == "" {
		return a, false, err
	}

	err = h.run(ctx, huh.NewGroup(
		huh.NewConfirm().
			Title("Add numbers?").
			Value(&a.Numbers),
	))
	if err != nil {
		return a, false, err
	}

	if a.Numbers {
		a.NumberKind = numberKindYears
		err = h.run(ctx, huh.NewGroup(
			huh.NewSelect[string]().
				Title("Number source").
				Options(
					huh.NewOption("Year range (e.g. 1990-2025)", numberKindYears),
					huh.NewOption("Fixed digit width (e.g. 3 for 000-999)", numberKindDigits),
				).
				Value(&a.NumberKind),
		))
		if err != nil {
			return a, false, err
		}

		if a.NumberKind == numberKindYears {
			err = h.run(ctx, huh.NewGroup(
				huh.NewInput().
					Title("Year range").
					Placeholder("1990-2025").
					Value(&a.Years).
					Validate(func(s string) error {
						_, err := variation.ParseYearRange(strings.TrimSpace(s))
						return err
					}),
			))
		} else {
			err = h.run(ctx, huh.NewGroup(
				huh.NewInput().
					Title("Digits").
					Placeholder("3").
					Value(&a.Digits).
					Validate(func(s string) error {
						n, err := parsePositive(s)
						if err != nil || n == 0 || n > variation.MaxDigits {
							return fmt.Errorf("enter a number between 1 and %d", variation.MaxDigits)
						}
						return nil
					}),
			))
		}
		if err != nil {
			return a, false, err
		}
	}

	err = h.run(ctx, huh.NewGroup(
		huh.NewInput().
			Title("Special characters").
			Description("Comma separated, empty for none").
			Placeholder("!,@,#,$").
			Value(&a.Special),
		huh.NewConfirm().
			Title("Generate every upper/lower case combination?").
			Value(&a.CaseMix),
		huh.NewInput().
			Title("Limit for this keyword").
			Description("Empty for no limit").
			Value(&a.Limit).
			Validate(func(s string) error {
				if _, err := parsePositive(s); err != nil {
					return errors.New("enter a positive number or leave empty")
				}
				return nil
			}),
	))
	return a, err == nil, err
}

func (h *huhPrompter) Deduplicate(ctx context.Context) (bool, error) {
	var ok bool
	err := h.run(ctx, huh.NewGroup(
		huh.NewConfirm().
			Title("Remove duplicates after generation?").
			Description("Large wordlists can take a long time and a lot of memory to sort.").
			Value(&ok),
	))
	return ok, err
}

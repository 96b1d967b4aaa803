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
	"fmt"
	"math/big"

	"github.com/AleutianAI/dictgen/pkg/ux"
	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/AleutianAI/dictgen/services/dictgen/mutation"
	"github.com/spf13/cobra"
)

// estimateRow is the projected output of one keyword.
type estimateRow struct {
	Keyword string
	Summary string
	Lines   *big.Int
}

func runEstimate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	jobs, err := collectJobs(mflags, jobsFile, args)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return dgerr.InvalidInput("estimate", "no keywords given; pass -k or --jobs")
	}

	rows, total := estimate(jobs)
	for _, r := range rows {
		if ux.GetPersonality().Level == ux.PersonalityMachine {
			ux.Info(fmt.Sprintf("estimate\t%s\t%s", r.Keyword, r.Lines))
			continue
		}
		ux.Info(fmt.Sprintf("%-20s %15s  %s", r.Keyword, formatBig(r.Lines), ux.Styles.Muted.Render(r.Summary)))
	}
	if ux.GetPersonality().Level == ux.PersonalityMachine {
		ux.Info(fmt.Sprintf("total\t\t%s", total))
		return nil
	}
	ux.Success(fmt.Sprintf("%s lines in total", formatBig(total)))
	return nil
}

// estimate counts the lines each job would write and their sum.
func estimate(jobs []mutation.Job) ([]estimateRow, *big.Int) {
	total := new(big.Int)
	rows := make([]estimateRow, 0, len(jobs))
	for _, j := range jobs {
		n := mutation.Count(j.Keyword, j.Config)
		total.Add(total, n)
		rows = append(rows, estimateRow{Keyword: j.Keyword, Summary: j.Config.Summary(), Lines: n})
	}
	return rows, total
}

// formatBig renders n with thousands separators when it fits in an int64.
func formatBig(n *big.Int) string {
	if n.IsInt64() {
		return ux.FormatCount(n.Int64())
	}
	return n.String()
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// captureOutput redirects the print helpers at the given level.
func captureOutput(t *testing.T, level PersonalityLevel) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	orig := GetPersonality()
	SetPersonalityLevel(level)

	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	restore := SetOutput(stdout, stderr)
	t.Cleanup(func() {
		restore()
		SetPersonality(orig)
	})
	return stdout, stderr
}

func TestSuccess_MachineMode(t *testing.T) {
	out, _ := captureOutput(t, PersonalityMachine)
	Success("done")
	if out.String() != "OK: done\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestWarningAndError_MachineModeUseStderr(t *testing.T) {
	out, errOut := captureOutput(t, PersonalityMachine)
	Warning("careful")
	Error("broken")

	if out.Len() != 0 {
		t.Errorf("expected empty stdout, got %q", out.String())
	}
	if errOut.String() != "WARN: careful\nERROR: broken\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestTitleAndMuted_HiddenInMachineMode(t *testing.T) {
	out, _ := captureOutput(t, PersonalityMachine)
	Title("dictgen")
	Muted("hint")
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestPrintHelpers_StandardMode(t *testing.T) {
	out, _ := captureOutput(t, PersonalityStandard)
	Title("dictgen")
	Success("wrote file")
	Warning("slow disk")
	Error("failed")
	Info("note")
	Muted("quiet")

	got := out.String()
	for _, want := range []string{"dictgen", "wrote file", "slow disk", "failed", "note", "quiet", string(IconSuccess), string(IconError)} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestBox(t *testing.T) {
	out, _ := captureOutput(t, PersonalityMachine)
	Box("Dedupe", "sort -u -o a b")
	if out.String() != "Dedupe: sort -u -o a b\n" {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	SetPersonalityLevel(PersonalityFull)
	Box("Dedupe", "sort -u -o a b")
	if !strings.Contains(out.String(), "sort -u -o a b") {
		t.Errorf("box lost its content: %q", out.String())
	}
}

func TestWarningBox_Machine(t *testing.T) {
	_, errOut := captureOutput(t, PersonalityMachine)
	WarningBox("Dedupe skipped", "run it yourself")
	if errOut.String() != "WARN Dedupe skipped: run it yourself\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestKeywordResult_Machine(t *testing.T) {
	out, _ := captureOutput(t, PersonalityMachine)
	KeywordResult(KeywordLine{Keyword: "admin", Status: "completed", Emitted: 4})
	KeywordResult(KeywordLine{Keyword: "root", Status: "failed", Emitted: 7, Reason: "disk full"})

	want := "completed\tadmin\t4\t\nfailed\troot\t7\tdisk full\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestKeywordResult_Standard(t *testing.T) {
	out, _ := captureOutput(t, PersonalityStandard)
	KeywordResult(KeywordLine{Keyword: "admin", Status: "limit_reached", Emitted: 12000})

	got := out.String()
	for _, want := range []string{"admin", "12,000 lines", "limit reached"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
}

func TestKeywordLine_Icon(t *testing.T) {
	tests := map[string]Icon{
		"completed":     IconSuccess,
		"limit_reached": IconArrow,
		"cancelled":     IconWarning,
		"failed":        IconError,
		"":              IconPending,
	}
	for status, want := range tests {
		if got := (KeywordLine{Status: status}).Icon(); got != want {
			t.Errorf("status %q: got %v, want %v", status, got, want)
		}
	}
}

func TestSummary_Machine(t *testing.T) {
	out, _ := captureOutput(t, PersonalityMachine)
	Summary(RunTotals{
		Lines:     2004,
		Completed: 2,
		Limited:   1,
		Failed:    1,
		Duration:  1500 * time.Millisecond,
		Output:    "dictionary.txt",
	})

	want := "SUMMARY: lines=2004 completed=2 limit_reached=1 failed=1 cancelled=0 duration=1.5s output=dictionary.txt\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestSummary_Standard(t *testing.T) {
	out, _ := captureOutput(t, PersonalityStandard)
	Summary(RunTotals{Lines: 1234567, Completed: 3, Output: "out.txt"})

	got := out.String()
	for _, want := range []string{"1,234,567", "lines", "out.txt"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.n); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestSetOutput_Restore(t *testing.T) {
	first := &bytes.Buffer{}
	restore := SetOutput(first, nil)
	if outW() != first {
		t.Fatal("stdout not redirected")
	}
	restore()
	if outW() == first {
		t.Error("restore did not reinstate previous writer")
	}
}

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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// dictgen palette, built on the Aleutian teal family
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // highlights, success
	ColorTealPrimary = lipgloss.Color("#20B9B4") // main brand color
	ColorTealDeep    = lipgloss.Color("#16858E") // borders
	ColorSlate       = lipgloss.Color("#2C4A54") // muted text

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box        lipgloss.Style
	WarningBox lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// =============================================================================
// Output Streams
// =============================================================================

var (
	streamMu sync.RWMutex
	stdoutW  io.Writer = os.Stdout
	stderrW  io.Writer = os.Stderr
)

// SetOutput redirects the print helpers. A nil writer keeps the current one.
// Returns a function that restores the previous writers.
func SetOutput(stdout, stderr io.Writer) (restore func()) {
	streamMu.Lock()
	defer streamMu.Unlock()
	prevOut, prevErr := stdoutW, stderrW
	if stdout != nil {
		stdoutW = stdout
	}
	if stderr != nil {
		stderrW = stderr
	}
	return func() {
		streamMu.Lock()
		defer streamMu.Unlock()
		stdoutW, stderrW = prevOut, prevErr
	}
}

func outW() io.Writer {
	streamMu.RLock()
	defer streamMu.RUnlock()
	return stdoutW
}

func errW() io.Writer {
	streamMu.RLock()
	defer streamMu.RUnlock()
	return stderrW
}

// =============================================================================
// Print Helpers
// =============================================================================

// Title prints a styled title
func Title(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(outW(), Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func Success(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(outW(), "OK: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(outW(), "%s %s\n", IconSuccess.Render(), text)
	default:
		fmt.Fprintf(outW(), "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message
func Warning(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(errW(), "WARN: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(outW(), "%s %s\n", IconWarning.Render(), text)
	default:
		fmt.Fprintf(outW(), "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message
func Error(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(errW(), "ERROR: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(outW(), "%s %s\n", IconError.Render(), text)
	default:
		fmt.Fprintf(outW(), "%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational message
func Info(text string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintln(outW(), text)
		return
	}
	fmt.Fprintf(outW(), "%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints muted/secondary text
func Muted(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(outW(), Styles.Muted.Render(text))
}

// Box prints text in a rounded box
func Box(title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(outW(), "%s: %s\n", title, content)
		return
	}
	fmt.Fprintln(outW(), Styles.Box.Width(60).Render(Styles.Title.Render(title)+"\n"+content))
}

// WarningBox prints text in a warning-styled box
func WarningBox(title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(errW(), "WARN %s: %s\n", title, content)
		return
	}
	fmt.Fprintln(outW(), Styles.WarningBox.Width(60).Render(Styles.Warning.Bold(true).Render(title)+"\n"+content))
}

// =============================================================================
// Run Results
// =============================================================================

// KeywordLine describes the outcome of one keyword for display.
type KeywordLine struct {
	Keyword string
	Status  string
	Emitted int64
	Reason  string
}

// Icon picks the status icon for the line.
func (k KeywordLine) Icon() Icon {
	switch k.Status {
	case "completed":
		return IconSuccess
	case "limit_reached":
		return IconArrow
	case "cancelled":
		return IconWarning
	case "failed":
		return IconError
	default:
		return IconPending
	}
}

// KeywordResult prints one keyword outcome. Machine output is tab separated:
// status, keyword, emitted, reason.
func KeywordResult(k KeywordLine) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(outW(), "%s\t%s\t%d\t%s\n", k.Status, k.Keyword, k.Emitted, k.Reason)
	case PersonalityMinimal:
		fmt.Fprintf(outW(), "%s %s %s\n", k.Icon().Render(), k.Keyword, FormatCount(k.Emitted))
	default:
		line := fmt.Sprintf("%s %s %s", k.Icon().Render(), Styles.Bold.Render(k.Keyword),
			Styles.Muted.Render(FormatCount(k.Emitted)+" lines"))
		if k.Status == "limit_reached" {
			line += " " + Styles.Muted.Render("(limit reached)")
		}
		if k.Reason != "" {
			line += " " + Styles.Error.Render(k.Reason)
		}
		fmt.Fprintln(outW(), line)
	}
}

// RunTotals aggregates a finished run for the summary line.
type RunTotals struct {
	Lines     int64
	Completed int
	Limited   int
	Failed    int
	Cancelled int
	Duration  time.Duration
	Output    string
}

// Summary prints the run totals.
func Summary(t RunTotals) {
	d := t.Duration.Round(time.Millisecond)
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(outW(), "SUMMARY: lines=%d completed=%d limit_reached=%d failed=%d cancelled=%d duration=%s output=%s\n",
			t.Lines, t.Completed, t.Limited, t.Failed, t.Cancelled, d, t.Output)
		return
	}
	fmt.Fprintf(outW(), "\n%s %s  %s %s  %s %s  %s %s\n",
		Styles.Highlight.Render(FormatCount(t.Lines)), Styles.Muted.Render("lines"),
		Styles.Success.Render(strconv.Itoa(t.Completed+t.Limited)), Styles.Muted.Render("done"),
		Styles.Error.Render(strconv.Itoa(t.Failed)), Styles.Muted.Render("failed"),
		Styles.Warning.Render(strconv.Itoa(t.Cancelled)), Styles.Muted.Render("cancelled"),
	)
	fmt.Fprintf(outW(), "%s %s %s\n", IconArrow.Render(), t.Output, Styles.Muted.Render("("+d.String()+")"))
}

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

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
	"sync"
	"time"
)

// SpinnerType defines the animation style
type SpinnerType int

const (
	SpinnerDots SpinnerType = iota
	SpinnerLine
	SpinnerCompass
)

var spinnerFrames = map[SpinnerType][]string{
	SpinnerDots:    {"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	SpinnerLine:    {"-", "\\", "|", "/"},
	SpinnerCompass: {"◐", "◓", "◑", "◒"},
}

const spinnerInterval = 80 * time.Millisecond

// Spinner provides an animated loading indicator on stderr.
type Spinner struct {
	message    string
	spinType   SpinnerType
	render     func() string
	stop       chan struct{}
	done       chan struct{}
	mu         sync.Mutex
	isRunning  bool
	frameIndex int
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message:  message,
		spinType: SpinnerDots,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// WithType sets the spinner animation type
func (s *Spinner) WithType(t SpinnerType) *Spinner {
	s.spinType = t
	return s
}

// Start begins the spinner animation. A spinner cannot be restarted after
// Stop.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(errW(), "PROGRESS: %s\n", s.text())
		return
	}

	go func() {
		frames := spinnerFrames[s.spinType]
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				fmt.Fprint(errW(), "\r\033[K")
				close(s.done)
				return
			case <-ticker.C:
				frame := Styles.Highlight.Render(frames[s.frameIndex])
				fmt.Fprintf(errW(), "\r\033[K%s %s", frame, s.text())
				s.frameIndex = (s.frameIndex + 1) % len(frames)
			}
		}
	}()
}

// Stop halts the spinner animation
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	if GetPersonality().Level == PersonalityMachine {
		return
	}

	close(s.stop)
	<-s.done
}

func (s *Spinner) text() string {
	s.mu.Lock()
	render, msg := s.render, s.message
	s.mu.Unlock()
	if render != nil {
		return render()
	}
	return msg
}

// StopWithSuccess stops and prints a success message
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	Success(message)
}

// StopWithError stops and prints an error message
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	Error(message)
}

// StopWithWarning stops and prints a warning message
func (s *Spinner) StopWithWarning(message string) {
	s.Stop()
	Warning(message)
}

// WithSpinner runs a function with a spinner, handling success/error automatically
func WithSpinner(message string, fn func() error) error {
	spin := NewSpinner(message)
	spin.Start()

	if err := fn(); err != nil {
		spin.StopWithError(fmt.Sprintf("%s: %v", message, err))
		return err
	}

	spin.StopWithSuccess(message)
	return nil
}

// =============================================================================
// Progress Spinner
// =============================================================================

// CountReader is a live counter the progress spinner polls each frame.
type CountReader interface {
	Value() int64
}

// ProgressSpinner shows finished keywords out of the total together with
// the live line count.
type ProgressSpinner struct {
	*Spinner
	label   string
	current int
	total   int
	lines   CountReader
}

// NewProgressSpinner creates a spinner that shows progress. lines may be
// nil until the run attaches its counter with SetCounter.
func NewProgressSpinner(message string, total int, lines CountReader) *ProgressSpinner {
	p := &ProgressSpinner{
		Spinner: NewSpinner(message),
		label:   message,
		total:   total,
		lines:   lines,
	}
	p.Spinner.render = p.Message
	return p
}

// SetCounter attaches the live line counter.
func (p *ProgressSpinner) SetCounter(lines CountReader) {
	p.mu.Lock()
	p.lines = lines
	p.mu.Unlock()
}

// Increment advances the finished keyword count
func (p *ProgressSpinner) Increment() {
	p.mu.Lock()
	p.current++
	p.mu.Unlock()
}

// SetProgress sets the finished keyword count
func (p *ProgressSpinner) SetProgress(current int) {
	p.mu.Lock()
	p.current = current
	p.mu.Unlock()
}

// Message renders the current progress text.
func (p *ProgressSpinner) Message() string {
	p.mu.Lock()
	label, current, total, lines := p.label, p.current, p.total, p.lines
	p.mu.Unlock()

	msg := fmt.Sprintf("%s [%d/%d]", label, current, total)
	if lines != nil {
		msg += " " + FormatCount(lines.Value()) + " lines"
	}
	return msg
}

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
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type fakeCounter struct{ n atomic.Int64 }

func (f *fakeCounter) Value() int64 { return f.n.Load() }

func TestNewSpinner_Defaults(t *testing.T) {
	spin := NewSpinner("Loading...")
	if spin.message != "Loading..." {
		t.Errorf("expected message 'Loading...', got %q", spin.message)
	}
	if spin.spinType != SpinnerDots {
		t.Errorf("expected SpinnerDots, got %v", spin.spinType)
	}
	if spin.stop == nil || spin.done == nil {
		t.Error("channels should be initialized")
	}
}

func TestSpinner_WithType(t *testing.T) {
	spin := NewSpinner("x").WithType(SpinnerCompass)
	if spin.spinType != SpinnerCompass {
		t.Errorf("expected SpinnerCompass, got %v", spin.spinType)
	}
	for typ, frames := range spinnerFrames {
		if len(frames) == 0 {
			t.Errorf("spinner type %v has no frames", typ)
		}
	}
}

func TestSpinner_StopWithWarning(t *testing.T) {
	_, errOut := captureOutput(t, PersonalityMachine)

	spin := NewSpinner("dedupe").WithType(SpinnerLine)
	spin.Start()
	spin.StopWithWarning("dedupe failed")

	if errOut.String() != "PROGRESS: dedupe\nWARN: dedupe failed\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestSpinner_MachineModePrintsOnce(t *testing.T) {
	_, errOut := captureOutput(t, PersonalityMachine)

	spin := NewSpinner("generating")
	spin.Start()
	spin.Start()
	spin.Stop()
	spin.Stop()

	if errOut.String() != "PROGRESS: generating\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestSpinner_AnimatesAndClears(t *testing.T) {
	_, errOut := captureOutput(t, PersonalityStandard)

	spin := NewSpinner("working")
	spin.Start()
	time.Sleep(3 * spinnerInterval)
	spin.Stop()

	got := errOut.String()
	if !strings.Contains(got, "working") {
		t.Errorf("spinner frames missing message: %q", got)
	}
	if !strings.HasSuffix(got, "\r\033[K") {
		t.Error("spinner should clear its line on stop")
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	_, _ = captureOutput(t, PersonalityStandard)
	spin := NewSpinner("never started")
	spin.Stop()
}

func TestWithSpinner(t *testing.T) {
	out, errOut := captureOutput(t, PersonalityMachine)

	if err := WithSpinner("dedupe", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "OK: dedupe") {
		t.Errorf("missing success line: %q", out.String())
	}

	boom := errors.New("boom")
	if err := WithSpinner("dedupe", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !strings.Contains(errOut.String(), "ERROR: dedupe: boom") {
		t.Errorf("missing error line: %q", errOut.String())
	}
}

func TestProgressSpinner_Message(t *testing.T) {
	counter := &fakeCounter{}
	p := NewProgressSpinner("Generating", 3, nil)

	if got := p.Message(); got != "Generating [0/3]" {
		t.Errorf("got %q", got)
	}

	p.SetCounter(counter)
	counter.n.Store(12345)
	p.Increment()
	if got := p.Message(); got != "Generating [1/3] 12,345 lines" {
		t.Errorf("got %q", got)
	}

	p.SetProgress(3)
	if got := p.Message(); !strings.HasPrefix(got, "Generating [3/3]") {
		t.Errorf("got %q", got)
	}
}

func TestProgressSpinner_RendersLiveCount(t *testing.T) {
	_, errOut := captureOutput(t, PersonalityStandard)
	counter := &fakeCounter{}
	counter.n.Store(1500)

	p := NewProgressSpinner("Generating", 2, counter)
	p.Start()
	time.Sleep(3 * spinnerInterval)
	p.Stop()

	if !strings.Contains(errOut.String(), "1,500 lines") {
		t.Errorf("live count not rendered: %q", errOut.String())
	}
}

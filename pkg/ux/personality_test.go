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
	"testing"
)

func TestSetPersonality_AndGet(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonality(Personality{Level: PersonalityMinimal, ShowTips: false})

	got := GetPersonality()
	if got.Level != PersonalityMinimal {
		t.Errorf("expected level %v, got %v", PersonalityMinimal, got.Level)
	}
	if got.ShowTips {
		t.Error("expected ShowTips false")
	}
}

func TestSetPersonalityLevel_KeepsTips(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonality(Personality{Level: PersonalityFull, ShowTips: true})
	SetPersonalityLevel(PersonalityMachine)

	got := GetPersonality()
	if got.Level != PersonalityMachine {
		t.Errorf("expected PersonalityMachine, got %v", got.Level)
	}
	if !got.ShowTips {
		t.Error("SetPersonalityLevel should not reset ShowTips")
	}
}

func TestParsePersonalityLevel(t *testing.T) {
	tests := []struct {
		input string
		want  PersonalityLevel
	}{
		{"full", PersonalityFull},
		{"F", PersonalityFull},
		{"standard", PersonalityStandard},
		{"std", PersonalityStandard},
		{"minimal", PersonalityMinimal},
		{"min", PersonalityMinimal},
		{"machine", PersonalityMachine},
		{"quiet", PersonalityMachine},
		{" q ", PersonalityMachine},
		{"", PersonalityStandard},
		{"loud", PersonalityStandard},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParsePersonalityLevel(tt.input); got != tt.want {
				t.Errorf("ParsePersonalityLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitPersonality_FlagWins(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	t.Setenv(PersonalityEnv, "machine")

	InitPersonality("minimal")

	if got := GetPersonality().Level; got != PersonalityMinimal {
		t.Errorf("expected flag value to win, got %v", got)
	}
}

func TestInitPersonality_Env(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	t.Setenv(PersonalityEnv, "standard")

	InitPersonality("")

	if got := GetPersonality().Level; got != PersonalityStandard {
		t.Errorf("expected env level, got %v", got)
	}
}

func TestInitPersonality_NonTerminalIsMachine(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	t.Setenv(PersonalityEnv, "")

	// go test never runs with a terminal stdout
	if isTerminal(nil) {
		t.Fatal("nil file reported as terminal")
	}
	InitPersonality("")

	got := GetPersonality().Level
	if got != PersonalityMachine && got != PersonalityFull {
		t.Errorf("unexpected level %v", got)
	}
}

func TestShouldShowProgressAndColors(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	for _, level := range []PersonalityLevel{PersonalityFull, PersonalityStandard, PersonalityMinimal} {
		SetPersonalityLevel(level)
		if !ShouldShowProgress() || !ShouldShowColors() {
			t.Errorf("level %v should show progress and colors", level)
		}
	}

	SetPersonalityLevel(PersonalityMachine)
	if ShouldShowProgress() || ShouldShowColors() {
		t.Error("machine level should hide progress and colors")
	}
	if IsInteractive() {
		t.Error("machine level is never interactive")
	}
}

func TestDefaultPersonality(t *testing.T) {
	p := DefaultPersonality()
	if p.Level != PersonalityFull || !p.ShowTips {
		t.Errorf("unexpected default %+v", p)
	}
}

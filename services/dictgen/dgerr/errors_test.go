// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dgerr

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKindAndCause(t *testing.T) {
	err := IOFailure("append", "/tmp/out.txt", os.ErrPermission)

	assert.True(t, errors.Is(err, ErrIOFailure))
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.False(t, errors.Is(err, ErrInvalidConfig))
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), "/tmp/out.txt")
}

func TestHintOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"output file", OutputFailure("append", "/tmp/out.txt", os.ErrPermission), OutputHint},
		{"input file", IOFailure("load jobs", "/tmp/jobs.yaml", os.ErrNotExist), ""},
		{"keyword kept", WithKeyword(OutputFailure("append", "x", os.ErrPermission), "admin"), OutputHint},
		{"plain error", errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HintOf(tt.err))
		})
	}
	assert.True(t, errors.Is(OutputFailure("append", "x", nil), ErrIOFailure))
}

func TestWithKeyword(t *testing.T) {
	base := InvalidInput("case combinations", "word is empty")
	err := WithKeyword(base, "admin")

	var de *Error
	if assert.True(t, errors.As(err, &de)) {
		assert.Equal(t, "admin", de.Keyword)
	}
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), `keyword="admin"`)

	// the original is not mutated
	assert.Empty(t, base.(*Error).Keyword)

	plain := WithKeyword(errors.New("boom"), "root")
	assert.EqualError(t, plain, `keyword "root": boom`)

	assert.Nil(t, WithKeyword(nil, "x"))
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"io", IOFailure("open", "x", errors.New("disk full")), true},
		{"config", InvalidConfig("numeric", "inverted"), false},
		{"input", InvalidInput("case", "empty"), false},
		{"cancelled", ErrCancelled, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dedupe

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls [][]string
	run   func(ctx context.Context, name string, args ...string) (commandResult, error)
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.run == nil {
		return commandResult{}, nil
	}
	return f.run(ctx, name, args...)
}

func TestUniquePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"dictionary.txt", "dictionary_unique.txt"},
		{filepath.Join("out", "words.lst"), filepath.Join("out", "words_unique.lst")},
		{"noext", "noext_unique"},
		{"archive.tar.gz", "archive.tar_unique.gz"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, UniquePath(tt.in))
		})
	}
}

func TestBuildCommand(t *testing.T) {
	unix := BuildCommand("linux", "in.txt", "in_unique.txt")
	assert.Equal(t, "sort", unix.Name)
	assert.Equal(t, []string{"-u", "-o", "in_unique.txt", "in.txt"}, unix.Args)

	win := BuildCommand("windows", `C:\o'neil\in.txt`, `C:\o'neil\in_unique.txt`)
	assert.Equal(t, "powershell", win.Name)
	require.Len(t, win.Args, 4)
	assert.Equal(t, "-Command", win.Args[2])
	assert.Contains(t, win.Args[3], "Sort-Object -Unique")
	assert.Contains(t, win.Args[3], `'C:\o''neil\in.txt'`)
}

func TestManualCommands(t *testing.T) {
	cmds := ManualCommands("dict.txt")
	require.Len(t, cmds, 2)
	assert.Equal(t, `sort -u "dict.txt" > "dict_unique.txt"`, cmds[0])
	assert.Equal(t, `Get-Content 'dict.txt' | Sort-Object -Unique | Set-Content 'dict_unique.txt'`, cmds[1])
}

func TestDeduper_RunWithFakeRunner(t *testing.T) {
	input := filepath.Join(t.TempDir(), "dict.txt")
	require.NoError(t, os.WriteFile(input, []byte("b\na\nb\n"), 0o644))

	runner := &fakeRunner{}
	d := New(WithGOOS("linux"))
	d.runner = runner

	out, err := d.Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, UniquePath(input), out)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"sort", "-u", "-o", out, input}, runner.calls[0])
}

func TestDeduper_CommandFailure(t *testing.T) {
	input := filepath.Join(t.TempDir(), "dict.txt")
	require.NoError(t, os.WriteFile(input, []byte("x\n"), 0o644))

	cause := errors.New("exit status 2")
	d := New(WithGOOS("linux"))
	d.runner = &fakeRunner{run: func(context.Context, string, ...string) (commandResult, error) {
		return commandResult{Stderr: "  sort: write failed: No space left on device\n", ExitCode: 2}, cause
	}}

	out, err := d.Run(context.Background(), input)
	assert.Empty(t, out)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 2, cmdErr.ExitCode)
	assert.Equal(t, "sort: write failed: No space left on device", cmdErr.Stderr)
	assert.NotEmpty(t, cmdErr.Stderr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "(exit 2)")
}

func TestDeduper_MissingInput(t *testing.T) {
	runner := &fakeRunner{}
	d := New()
	d.runner = runner

	_, err := d.Run(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, runner.calls)
}

func TestDeduper_RealSort(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses the unix sort tool")
	}
	if _, err := exec.LookPath("sort"); err != nil {
		t.Skip("sort not installed")
	}

	input := filepath.Join(t.TempDir(), "dict.txt")
	require.NoError(t, os.WriteFile(input, []byte("admin\nADMIN\nadmin\nAdmin\n"), 0o644))

	out, err := New().Run(context.Background(), input)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.ElementsMatch(t, []string{"admin", "ADMIN", "Admin"}, lines)

	orig, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, "admin\nADMIN\nadmin\nAdmin\n", string(orig), "input must be left untouched")
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "sort", Args: []string{"-u", "-o", "my words.txt", "in.txt"}}
	assert.Equal(t, `sort -u -o "my words.txt" in.txt`, c.String())
}

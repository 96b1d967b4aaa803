// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 0, cfg.Processes)
}

func TestLoad_EmptyPathUsesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: from-env.txt\n"), 0o644))
	t.Setenv(PathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env.txt", cfg.Output)
}

func TestLoad_OverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictgen.yaml")
	body := `
processes: 4
deduplicate: true
personality: minimal
logging:
  level: debug
  json: true
telemetry:
  metric_exporter: prometheus
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, 4, cfg.Processes)
	assert.True(t, cfg.Deduplicate)
	assert.Equal(t, "minimal", cfg.Personality)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
	assert.Equal(t, "dictgen", cfg.Telemetry.ServiceName)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative processes", "processes: -1\n"},
		{"unknown personality", "personality: loud\n"},
		{"bad log level", "logging:\n  level: chatty\n"},
		{"bad exporter", "telemetry:\n  trace_exporter: zipkin\n"},
		{"bad metrics addr", "metrics_addr: nowhere\n"},
		{"not yaml", "output: [unterminated\n"},
		{"future major version", "meta:\n  version: 2.0.0\n"},
		{"garbage version", "meta:\n  version: latest\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dictgen.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, dgerr.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	for _, v := range []string{"", "1.0.0", "v1.4.2", "1.9.0-beta.1"} {
		assert.NoError(t, checkVersion(v), "version %q", v)
	}
	for _, v := range []string{"0.9.0", "2.0.0", "one"} {
		assert.Error(t, checkVersion(v), "version %q", v)
	}
}

func TestLoad_UnreadableIsIOFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dgerr.ErrIOFailure), "got %v", err)
	assert.Empty(t, dgerr.HintOf(err))
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "dictgen.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg DictgenConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, CurrentConfigVersion, cfg.Meta.Version)
	require.NoError(t, Validate(cfg))

	err = WriteDefault(path)
	assert.True(t, errors.Is(err, fs.ErrExist))
}

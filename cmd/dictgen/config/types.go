// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the dictgen configuration file and keyword jobs files.
package config

import (
	"github.com/AleutianAI/dictgen/services/dictgen/telemetry"
)

// DefaultOutput is the wordlist path used when none is configured.
const DefaultOutput = "dictionary.txt"

// CurrentConfigVersion is the config schema version written by WriteDefault.
// Files with a different major version are rejected.
const CurrentConfigVersion = "1.0.0"

// ConfigMeta describes the config file itself.
type ConfigMeta struct {
	Version string `yaml:"version"`
}

// DictgenConfig holds the defaults for a generation run. Flags override
// every field.
type DictgenConfig struct {
	Meta ConfigMeta `yaml:"meta"`

	// Output is the wordlist path.
	Output string `yaml:"output" validate:"required"`

	// Processes is the worker count. 0 = one per CPU.
	Processes int `yaml:"processes" validate:"gte=0"`

	// Deduplicate runs the external sort/unique step after generation.
	Deduplicate bool `yaml:"deduplicate"`

	// Append keeps existing output instead of truncating it.
	Append bool `yaml:"append"`

	// Personality selects the terminal output level.
	Personality string `yaml:"personality,omitempty" validate:"omitempty,oneof=full standard minimal machine"`

	// MetricsAddr serves /metrics on this address when set.
	MetricsAddr string `yaml:"metrics_addr,omitempty" validate:"omitempty,hostname_port"`

	Logging   LoggingConfig    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// LoggingConfig configures pkg/logging.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir,omitempty"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() DictgenConfig {
	return DictgenConfig{
		Meta:      ConfigMeta{Version: CurrentConfigVersion},
		Output:    DefaultOutput,
		Logging:   LoggingConfig{Level: "warn"},
		Telemetry: telemetry.DefaultConfig(),
	}
}

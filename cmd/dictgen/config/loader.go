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
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// PathEnv overrides the default config file location.
const PathEnv = "DICTGEN_CONFIG"

var validate = validator.New()

// DefaultPath returns $DICTGEN_CONFIG, or ~/.dictgen/dictgen.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".dictgen", "dictgen.yaml"), nil
}

// Load reads the config file at path on top of DefaultConfig.
//
// # Description
//
// An empty path resolves through DefaultPath. A missing file is not an error
// and yields the defaults. Fields absent from the file keep their defaults.
//
// # Outputs
//
//   - DictgenConfig: The merged configuration.
//   - error: ErrIOFailure when the file exists but cannot be read,
//     ErrInvalidConfig when it does not parse or validate.
func Load(path string) (DictgenConfig, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, dgerr.IOFailure("load config", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, dgerr.InvalidConfig("load config", "parse %s: %v", path, err)
	}
	if err := checkVersion(cfg.Meta.Version); err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field ranges on cfg.
func Validate(cfg DictgenConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dgerr.InvalidConfig("validate config", "%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return dgerr.InvalidConfig("validate config", "%s", strings.Join(msgs, "; "))
}

// checkVersion accepts an empty version or one sharing the major version of
// CurrentConfigVersion. A leading "v" is optional.
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	sv := v
	if !strings.HasPrefix(sv, "v") {
		sv = "v" + sv
	}
	if !semver.IsValid(sv) {
		return dgerr.InvalidConfig("load config", "meta.version %q is not a semantic version", v)
	}
	if semver.Major(sv) != semver.Major("v"+CurrentConfigVersion) {
		return dgerr.InvalidConfig("load config", "meta.version %s is not supported by this dictgen (expects %s)",
			v, semver.Major("v"+CurrentConfigVersion)+".x")
	}
	return nil
}

// WriteDefault writes DefaultConfig to path, creating parent directories.
// An existing file is left untouched and reported with fs.ErrExist.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s: %w", path, fs.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

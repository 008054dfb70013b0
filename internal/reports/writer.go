// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package reports models the failure report of a run and writes it to disk.
package reports

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Report is the run artifact written when --report is given. It records what
// failed, never caches what passed: re-running always re-checks.
type Report struct {
	ManifestPath string    `yaml:"manifest_path"`
	Packages     int       `yaml:"packages"`
	Combinations int       `yaml:"combinations"`
	Failures     []Failure `yaml:"failures"`
}

// Failure is one feature combination that failed to compile.
type Failure struct {
	Package  string   `yaml:"package"`
	Features []string `yaml:"features"`
}

// WriteYAMLAtomic writes a value to a YAML file atomically: a temporary file
// is written first and then renamed over the target, so the target is either
// fully written or not present at all.
func WriteYAMLAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temporary file: %w", err)
	}

	return nil
}

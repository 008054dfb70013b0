// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/TheBevyFlock/flag-frenzy/pkg/executil"
)

// formatVersion pins the output format of `cargo metadata`.
const formatVersion = "1"

// LoadManifest loads the manifest of the workspace whose Cargo.toml is at
// manifestPath.
//
// Metadata is loaded for every package in the workspace, skipping
// dependencies. Cargo's own diagnostics are passed straight through to the
// terminal.
func LoadManifest(ctx context.Context, runner executil.Runner, manifestPath string) (*Manifest, error) {
	info, err := os.Stat(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("manifest path %q: %w", manifestPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("manifest path %q is not a file", manifestPath)
	}

	cmd := executil.NewCommand(
		"cargo", "metadata",
		"--format-version", formatVersion,
		"--manifest-path", manifestPath,
		"--no-deps",
		"--color", "never",
	)
	cmd.Stderr = os.Stderr

	result, err := runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("could not spawn `cargo metadata`: %w", err)
	}

	if !result.Success() {
		return nil, fmt.Errorf("`cargo metadata` exited with a non-zero exit code")
	}

	var manifest Manifest
	if err := json.Unmarshal(result.Stdout, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse output of `cargo metadata`: %w", err)
	}

	return &manifest, nil
}

// LocateManifest discovers the workspace's Cargo.toml from the current
// directory via `cargo locate-project`.
func LocateManifest(ctx context.Context, runner executil.Runner) (string, error) {
	cmd := executil.NewCommand("cargo", "locate-project", "--workspace")
	cmd.Stderr = os.Stderr

	result, err := runner.Run(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("could not spawn `cargo locate-project`: %w", err)
	}

	if !result.Success() {
		return "", fmt.Errorf("`cargo locate-project` exited with a non-zero exit code")
	}

	var located struct {
		Root string `json:"root"`
	}
	if err := json.Unmarshal(result.Stdout, &located); err != nil {
		return "", fmt.Errorf("failed to parse output of `cargo locate-project`: %w", err)
	}

	if strings.TrimSpace(located.Root) == "" {
		return "", fmt.Errorf("`cargo locate-project` reported no workspace root")
	}

	return located.Root, nil
}

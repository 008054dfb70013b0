// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package checker drives `cargo check` for one feature combination at a
// time.
package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheBevyFlock/flag-frenzy/pkg/executil"
)

// CheckWithFeatures type-checks a package with exactly the given features
// enabled, nothing else.
//
// A non-zero exit code from cargo means the combination fails to compile;
// that is reported through the Result, not as an error. An error means cargo
// itself could not be run.
func CheckWithFeatures(ctx context.Context, runner executil.Runner, pkg, manifestPath string, features []string) (*executil.Result, error) {
	cmd := executil.NewCommand(
		"cargo", "check",
		"--manifest-path", manifestPath,
		"--package", pkg,
		"--color", "never",
		"--no-default-features",
		"--features", strings.Join(features, ","),
	)

	result, err := runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("could not spawn `cargo check`: %w", err)
	}

	return result, nil
}

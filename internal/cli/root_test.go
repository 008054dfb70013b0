// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command returned error: %v", err)
	}

	if !strings.Contains(out.String(), "flag-frenzy version") {
		t.Errorf("unexpected version output: %q", out.String())
	}
}

func TestRootHasCheckSubcommand(t *testing.T) {
	cmd := NewRootCommand()

	for _, sub := range cmd.Commands() {
		if sub.Name() == "check" {
			return
		}
	}

	t.Error("expected a check subcommand")
}

func TestChunkFlagsMustBePaired(t *testing.T) {
	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"check", "--chunk", "0"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for --chunk without --total-chunks")
	}
	if !strings.Contains(err.Error(), "--total-chunks") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPackageAndChunkAreExclusive(t *testing.T) {
	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"check", "--package", "frenzy", "--chunk", "0", "--total-chunks", "2"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for --package combined with --chunk")
	}
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInvalidColorChoice(t *testing.T) {
	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"check", "--color", "sometimes"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid color choice")
	}
	if !strings.Contains(err.Error(), "color") {
		t.Errorf("unexpected error: %v", err)
	}
}

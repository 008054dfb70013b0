// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package checker

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/TheBevyFlock/flag-frenzy/pkg/executil"
)

type mockRunner struct {
	runFunc func(ctx context.Context, cmd executil.Command) (*executil.Result, error)
}

func (m *mockRunner) Run(ctx context.Context, cmd executil.Command) (*executil.Result, error) {
	if m.runFunc != nil {
		return m.runFunc(ctx, cmd)
	}
	return &executil.Result{ExitCode: 0}, nil
}

func TestCheckWithFeatures_CommandShape(t *testing.T) {
	var captured executil.Command
	mock := &mockRunner{
		runFunc: func(ctx context.Context, cmd executil.Command) (*executil.Result, error) {
			captured = cmd
			return &executil.Result{ExitCode: 0}, nil
		},
	}

	result, err := CheckWithFeatures(context.Background(), mock, "frenzy", "/ws/Cargo.toml", []string{"simd", "threads"})
	if err != nil {
		t.Fatalf("CheckWithFeatures returned error: %v", err)
	}
	if !result.Success() {
		t.Error("expected success for exit code 0")
	}

	if captured.Name != "cargo" {
		t.Errorf("expected cargo invocation, got %q", captured.Name)
	}
	for _, want := range []string{"check", "--no-default-features", "--package", "frenzy", "--manifest-path", "/ws/Cargo.toml", "--features", "simd,threads"} {
		if !slices.Contains(captured.Args, want) {
			t.Errorf("expected args to contain %q, got %v", want, captured.Args)
		}
	}
}

func TestCheckWithFeatures_EmptyFeatureList(t *testing.T) {
	var captured executil.Command
	mock := &mockRunner{
		runFunc: func(ctx context.Context, cmd executil.Command) (*executil.Result, error) {
			captured = cmd
			return &executil.Result{ExitCode: 0}, nil
		},
	}

	if _, err := CheckWithFeatures(context.Background(), mock, "frenzy", "/ws/Cargo.toml", nil); err != nil {
		t.Fatalf("CheckWithFeatures returned error: %v", err)
	}

	// The empty combination still disables default features.
	if !slices.Contains(captured.Args, "--features") {
		t.Errorf("expected --features to be passed, got %v", captured.Args)
	}
	if !slices.Contains(captured.Args, "--no-default-features") {
		t.Errorf("expected --no-default-features to be passed, got %v", captured.Args)
	}
}

func TestCheckWithFeatures_FailingCombinationIsNotAnError(t *testing.T) {
	mock := &mockRunner{
		runFunc: func(ctx context.Context, cmd executil.Command) (*executil.Result, error) {
			return &executil.Result{ExitCode: 101, Stderr: []byte("error[E0432]: unresolved import")}, nil
		},
	}

	result, err := CheckWithFeatures(context.Background(), mock, "frenzy", "/ws/Cargo.toml", []string{"simd"})
	if err != nil {
		t.Fatalf("a failing combination must not be an error, got: %v", err)
	}
	if result.Success() {
		t.Error("expected failure for exit code 101")
	}
	if len(result.Stderr) == 0 {
		t.Error("expected compiler output to be captured")
	}
}

func TestCheckWithFeatures_SpawnFailure(t *testing.T) {
	mock := &mockRunner{
		runFunc: func(ctx context.Context, cmd executil.Command) (*executil.Result, error) {
			return nil, errors.New("executable file not found")
		},
	}

	_, err := CheckWithFeatures(context.Background(), mock, "frenzy", "/ws/Cargo.toml", []string{"simd"})
	if err == nil {
		t.Fatal("expected error when cargo cannot be spawned")
	}
}

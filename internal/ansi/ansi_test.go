// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package ansi

import "testing"

func TestParseColorChoice(t *testing.T) {
	choice, err := ParseColorChoice("always")
	if err != nil || choice != Always {
		t.Errorf("ParseColorChoice(always) = %v, %v", choice, err)
	}

	choice, err = ParseColorChoice("never")
	if err != nil || choice != Never {
		t.Errorf("ParseColorChoice(never) = %v, %v", choice, err)
	}

	if _, err := ParseColorChoice("auto"); err == nil {
		t.Error("expected error for unsupported color choice")
	}
}

func TestFromColorChoiceNever(t *testing.T) {
	c := FromColorChoice(Never)

	for name, code := range map[string]string{
		"Reset":   c.Reset,
		"Bold":    c.Bold,
		"Dim":     c.Dim,
		"Info":    c.Info,
		"Success": c.Success,
		"Error":   c.Error,
	} {
		if code != "" {
			t.Errorf("%s should be empty with colors disabled, got %q", name, code)
		}
	}
}

func TestFromColorChoiceAlways(t *testing.T) {
	c := FromColorChoice(Always)

	if c.Reset == "" || c.Error == "" {
		t.Error("expected escape codes with colors enabled")
	}
}

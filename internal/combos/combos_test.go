// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package combos

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func collectAll(c *Combos) [][]int {
	var out [][]int
	for {
		combo, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, combo)
	}
}

func TestCombosSize(t *testing.T) {
	combos := collectAll(NewCombos(7, 2))

	expected, err := NCR(7, 2)
	require.NoError(t, err)
	require.Equal(t, expected, U128(uint64(len(combos))))

	for _, combo := range combos {
		require.Len(t, combo, 2)
	}
}

func TestCombosSmall(t *testing.T) {
	combos := NewCombos(3, 2)
	expected := [][]int{{1, 2}, {0, 2}, {0, 1}}

	for _, want := range expected {
		got, ok := combos.Next()
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := combos.Next()
	require.False(t, ok)
}

func TestCombosNEqualsK(t *testing.T) {
	combos := NewCombos(7, 7)

	got, ok := combos.Next()
	require.True(t, ok)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, got)

	_, ok = combos.Next()
	require.False(t, ok)
}

func TestCombosNLessThanK(t *testing.T) {
	// n cannot be less than k.
	require.Panics(t, func() {
		NewCombos(2, 3)
	})
}

func TestCombosKIsZero(t *testing.T) {
	combos := NewCombos(2, 0)

	got, ok := combos.Next()
	require.True(t, ok)
	require.Empty(t, got)

	_, ok = combos.Next()
	require.False(t, ok)
}

func TestCombosFusedAfterDone(t *testing.T) {
	combos := NewCombos(3, 2)
	collectAll(combos)

	for i := 0; i < 3; i++ {
		_, ok := combos.Next()
		require.False(t, ok)
	}
}

func TestCombosProperties(t *testing.T) {
	const n = 6

	for k := 0; k <= n; k++ {
		combos := collectAll(NewCombos(n, k))

		want, err := NCR(n, uint64(k))
		require.NoError(t, err)
		require.Equal(t, want, U128(uint64(len(combos))), "count for k=%d", k)

		seen := map[string]bool{}
		for _, combo := range combos {
			require.Len(t, combo, k)

			// Subsets never repeat.
			fingerprint := fmt.Sprint(combo)
			require.False(t, seen[fingerprint], "duplicate combination %v", combo)
			seen[fingerprint] = true

			// Indices are unique, in range, and ascending.
			for i, idx := range combo {
				require.GreaterOrEqual(t, idx, 0)
				require.Less(t, idx, n)
				if i > 0 {
					require.Greater(t, idx, combo[i-1])
				}
			}
		}
	}
}

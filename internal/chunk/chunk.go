// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package chunk partitions workspace packages across parallel workers,
// balancing by estimated combination count.
package chunk

import (
	"fmt"
	"sort"

	"github.com/TheBevyFlock/flag-frenzy/internal/combos"
	"github.com/TheBevyFlock/flag-frenzy/internal/config"
	"github.com/TheBevyFlock/flag-frenzy/internal/manifest"
)

// SelectChunk partitions packages into totalChunks groups of roughly equal
// estimated cost and returns the group at index chunk.
//
// The partition is longest-processing-time-first: packages are taken largest
// first and each goes to the currently least-loaded worker. Every package
// lands in exactly one chunk, and the same inputs always produce the same
// partition.
func SelectChunk(totalChunks, chunk int, packages []manifest.Package, cfg *config.WorkspaceConfig) ([]manifest.Package, error) {
	if totalChunks <= 0 {
		return nil, fmt.Errorf("total chunks must be positive, got %d", totalChunks)
	}
	if chunk < 0 || chunk >= totalChunks {
		return nil, fmt.Errorf("chunk index %d out of range for %d total chunks", chunk, totalChunks)
	}

	sorted, err := sortByCombos(packages, cfg)
	if err != nil {
		return nil, err
	}

	chunks := createChunks(sorted, totalChunks)
	return chunks[chunk], nil
}

type sizedPackage struct {
	pkg  manifest.Package
	size combos.Uint128
}

// sortByCombos pairs each package with its estimated combination count and
// sorts ascending, so the package with the greatest amount of combinations
// is last. The sort is stable: determinism across workers is required for
// the chunks to be disjoint.
func sortByCombos(packages []manifest.Package, cfg *config.WorkspaceConfig) ([]sizedPackage, error) {
	sorted := make([]sizedPackage, 0, len(packages))

	for _, pkg := range packages {
		n := uint64(len(pkg.Features))

		maxK := n
		if limit, ok := cfg.Get(pkg.Name).MaxComboSize(); ok {
			if limit < 0 {
				limit = 0
			}
			maxK = uint64(limit)
		}

		size, err := combos.EstimateCombos(n, maxK)
		if err != nil {
			return nil, fmt.Errorf("estimating combinations for package %q (%d features, max combo size %d): %w; lower max_combo_size for this package", pkg.Name, n, maxK, err)
		}

		sorted = append(sorted, sizedPackage{pkg: pkg, size: size})
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].size.Less(sorted[j].size)
	})

	return sorted, nil
}

// createChunks assigns packages, largest first, to whichever chunk currently
// has the smallest total size. Ties go to the lowest worker index.
func createChunks(sorted []sizedPackage, totalChunks int) [][]manifest.Package {
	chunks := make([][]manifest.Package, totalChunks)
	sizes := make([]combos.Uint128, totalChunks)

	for i := len(sorted) - 1; i >= 0; i-- {
		smallest := 0
		for w := 1; w < totalChunks; w++ {
			if sizes[w].Less(sizes[smallest]) {
				smallest = w
			}
		}

		chunks[smallest] = append(chunks[smallest], sorted[i].pkg)
		sizes[smallest] = sizes[smallest].SaturatingAdd(sorted[i].size)
	}

	return chunks
}

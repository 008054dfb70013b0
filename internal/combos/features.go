// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package combos

import (
	"github.com/TheBevyFlock/flag-frenzy/internal/config"
	"github.com/TheBevyFlock/flag-frenzy/internal/intern"
)

// FeatureCombos is the lazy stream of valid feature combinations for one
// package: every combination of size 0 through the configured maximum,
// keyed through the storage's stable key order, that passes the crate's
// rules and contains no feature together with one of its transitive
// dependencies.
//
// The stream is single-pass; construct a new one to re-enumerate.
type FeatureCombos struct {
	storage *intern.FeatureStorage
	allKeys []intern.FeatureKey
	rules   []config.Rule

	maxK  int
	k     int
	inner *Combos
}

// NewFeatureCombos compiles the crate's rules and returns the combination
// stream for a package's interned storage.
func NewFeatureCombos(storage *intern.FeatureStorage, cfg config.Config) (*FeatureCombos, error) {
	total := storage.Len()

	maxK := total
	if limit, ok := cfg.MaxComboSize(); ok && limit < maxK {
		maxK = limit
	}
	if maxK < 0 {
		maxK = 0
	}

	rules, err := config.CompileRules(cfg.Rules(), storage)
	if err != nil {
		return nil, err
	}

	return &FeatureCombos{
		storage: storage,
		allKeys: storage.Keys(),
		rules:   rules,
		maxK:    maxK,
		inner:   NewCombos(total, 0),
	}, nil
}

// Next returns the next valid combination, or false when every combination
// size has been exhausted.
func (f *FeatureCombos) Next() ([]intern.FeatureKey, bool) {
	for {
		indices, ok := f.inner.Next()
		if !ok {
			if f.k == f.maxK {
				return nil, false
			}

			f.k++
			f.inner = NewCombos(len(f.allKeys), f.k)
			continue
		}

		combo := make([]intern.FeatureKey, len(indices))
		for i, idx := range indices {
			combo[i] = f.allKeys[idx]
		}

		if !f.valid(combo) {
			continue
		}

		return combo, true
	}
}

// valid reports whether a combination passes every rule and is free of
// redundant feature-dependency pairs.
func (f *FeatureCombos) valid(combo []intern.FeatureKey) bool {
	for _, rule := range f.rules {
		if !rule.Validate(combo) {
			return false
		}
	}

	// Enabling a feature implicitly enables its dependencies, so a
	// combination holding both would duplicate work and muddy reports.
	for _, a := range combo {
		for _, b := range combo {
			if a != b && f.storage.IsDependency(a, b) {
				return false
			}
		}
	}

	return true
}

// ResolveNames maps a combination back to its feature names in storage
// order.
func ResolveNames(combo []intern.FeatureKey, storage *intern.FeatureStorage) []string {
	names := make([]string, 0, len(combo))
	for _, key := range combo {
		if name, ok := storage.Get(key); ok {
			names = append(names, name)
		}
	}
	return names
}

// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package intern maps feature names to compact keys and records the
// transitive feature-dependency closure of each feature.
package intern

import (
	"fmt"
	"hash/maphash"
	"sort"
	"strings"
)

// DepPrefix marks a dependency entry in a feature list that refers to an
// optional Cargo dependency instead of another feature.
const DepPrefix = "dep:"

// FeatureKey is a cheap, copyable handle to a feature in a FeatureStorage.
//
// Keys are only meaningful within the storage that produced them. The hash
// seed is drawn from OS randomness per storage, so keys are stable within a
// run but never across runs.
type FeatureKey uint64

type entry struct {
	key  FeatureKey
	name string
	// Transitive closure of feature-to-feature dependencies, computed at
	// insertion time.
	deps map[FeatureKey]struct{}
}

// FeatureStorage interns feature names for a single package and hands out
// FeatureKeys for cheap access.
//
// It is internally a primitive hash map built on binary search: entries are
// kept sorted by key. It treats the 64-bit hash as the identity of a feature
// and should not be reused for any other purpose.
type FeatureStorage struct {
	inner []entry
	seed  maphash.Seed
}

// WithCapacity creates a FeatureStorage with room for capacity features
// before reallocating.
func WithCapacity(capacity int) *FeatureStorage {
	return &FeatureStorage{
		inner: make([]entry, 0, capacity),
		seed:  maphash.MakeSeed(),
	}
}

// CreateKey returns the key for a given name without inserting it.
func (s *FeatureStorage) CreateKey(name string) FeatureKey {
	return FeatureKey(maphash.String(s.seed, name))
}

// Len returns how many features are in storage.
func (s *FeatureStorage) Len() int {
	return len(s.inner)
}

// Get retrieves a feature name from a key, with ok false if nothing is
// stored under it.
func (s *FeatureStorage) Get(key FeatureKey) (string, bool) {
	i, found := s.search(key)
	if !found {
		return "", false
	}
	return s.inner[i].name, true
}

// GetDependencies returns the transitive dependency closure of a feature,
// with ok false if the key is not stored. The returned set is shared with
// the storage and must not be mutated.
func (s *FeatureStorage) GetDependencies(key FeatureKey) (map[FeatureKey]struct{}, bool) {
	i, found := s.search(key)
	if !found {
		return nil, false
	}
	return s.inner[i].deps, true
}

// IsDependency reports whether b is in the transitive dependency closure of
// a. Unknown keys are not dependencies of anything.
func (s *FeatureStorage) IsDependency(a, b FeatureKey) bool {
	deps, ok := s.GetDependencies(a)
	if !ok {
		return false
	}
	_, ok = deps[b]
	return ok
}

// Keys returns every key in storage, sorted. The order is the stable
// enumeration order that combination indices map through.
func (s *FeatureStorage) Keys() []FeatureKey {
	keys := make([]FeatureKey, len(s.inner))
	for i, e := range s.inner {
		keys[i] = e.key
	}
	return keys
}

// Insert interns a feature and returns its key, computing the feature's
// transitive dependency closure over the feature-to-feature edges in
// featureMap. Inserting the same name twice is a no-op that returns the
// existing key.
//
// Dependency entries carrying the "dep:" prefix, and entries that are not
// themselves keys of featureMap, are skipped.
func (s *FeatureStorage) Insert(name string, featureMap map[string][]string) FeatureKey {
	key := s.CreateKey(name)

	i, found := s.search(key)
	if found {
		if s.inner[i].name != name {
			// With 64-bit keys and a fresh OS-random seed per storage this is
			// effectively unreachable; re-running the program reseeds.
			panic(fmt.Sprintf("feature key collision: %q vs %q", s.inner[i].name, name))
		}
		return key
	}

	deps := make(map[FeatureKey]struct{})
	s.collectDependencies(name, featureMap, deps)

	s.inner = append(s.inner, entry{})
	copy(s.inner[i+1:], s.inner[i:])
	s.inner[i] = entry{key: key, name: name, deps: deps}

	return key
}

// collectDependencies walks featureMap from name, accumulating the keys of
// every reachable feature into acc.
//
// A prospective dependency already present in acc is skipped before
// recursing. Besides deduplicating, this breaks dependency cycles: any cycle
// must pass through a feature some ancestor frame has already accumulated.
func (s *FeatureStorage) collectDependencies(name string, featureMap map[string][]string, acc map[FeatureKey]struct{}) {
	for _, dep := range featureMap[name] {
		// Optional-dependency markers are not features.
		if strings.HasPrefix(dep, DepPrefix) {
			continue
		}

		// References to names that are not features themselves are skipped.
		if _, ok := featureMap[dep]; !ok {
			continue
		}

		key := s.CreateKey(dep)
		if _, ok := acc[key]; ok {
			continue
		}

		acc[key] = struct{}{}
		s.collectDependencies(dep, featureMap, acc)
	}
}

// search locates key in the sorted entry list, returning the index it is at
// or would be inserted at.
func (s *FeatureStorage) search(key FeatureKey) (int, bool) {
	i := sort.Search(len(s.inner), func(i int) bool {
		return s.inner[i].key >= key
	})
	return i, i < len(s.inner) && s.inner[i].key == key
}

// IsOptionalDep reports whether a feature is the implicitly-generated
// feature of an optional dependency: its dependency list is exactly
// ["dep:<its own name>"].
func IsOptionalDep(name string, deps []string) bool {
	return len(deps) == 1 && deps[0] == DepPrefix+name
}

// InternFeatures builds the FeatureStorage for a package's feature map.
//
// Names carrying the "dep:" prefix never appear as features. When
// skipOptionalDeps is set, optional-dependency features are removed before
// any insertion happens so that closure computation cannot reintroduce them.
func InternFeatures(features map[string][]string, skipOptionalDeps bool) *FeatureStorage {
	if skipOptionalDeps {
		filtered := make(map[string][]string, len(features))
		for name, deps := range features {
			if IsOptionalDep(name, deps) {
				continue
			}
			filtered[name] = deps
		}
		features = filtered
	}

	storage := WithCapacity(len(features))

	for name := range features {
		if strings.HasPrefix(name, DepPrefix) {
			continue
		}
		storage.Insert(name, features)
	}

	return storage
}

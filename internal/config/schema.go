// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package config defines the per-crate rule schema, compiles rules into
// evaluable expressions, and provides the workspace configuration store.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig classifies every schema- and loader-level configuration
// error.
var ErrInvalidConfig = errors.New("invalid config")

// CrateSchema is the top-level shape of one configuration file.
//
//	max_combo_size = 3
//	skip_optional_deps = true
//
//	[[rules]]
//	when = true
//	require = ["foo", "OR", "bar"]
type CrateSchema struct {
	// The limit on the size of combinations tested. Adding features grows
	// the total amount of combinations exponentially; capping the
	// combination size keeps runs tractable while still catching most
	// issues.
	MaxComboSize *int `toml:"max_combo_size"`

	// When set, skip features that only exist because of an optional
	// dependency.
	SkipOptionalDeps *bool `toml:"skip_optional_deps"`

	// Rules that combinations must pass to be checked.
	Rules []RuleSchema `toml:"rules"`
}

// RuleSchema is one rule as written in configuration. A combination passes
// when `when` does not match, or `require` matches and `forbid` does not.
type RuleSchema struct {
	When    TrueOrFeatureSet `toml:"when"`
	Require *FeatureSet      `toml:"require"`
	Forbid  *TrueOrFeatureSet `toml:"forbid"`
}

// Validate checks the parts of a rule that the TOML decoder cannot.
func (r *RuleSchema) Validate() error {
	if !r.When.defined {
		return fmt.Errorf("%w: rule is missing the required field \"when\"", ErrInvalidConfig)
	}
	return nil
}

// FeatureSet is a boolean expression over feature names: either a bare name
// or a list of feature sets combined with implicit AND and the infix "OR"
// keyword. Nested lists group.
type FeatureSet struct {
	one    string
	many   []FeatureSet
	isMany bool
}

// One returns a FeatureSet holding a single feature name.
func One(name string) FeatureSet {
	return FeatureSet{one: name}
}

// Many returns a FeatureSet holding a list of feature sets.
func Many(sets ...FeatureSet) FeatureSet {
	return FeatureSet{many: sets, isMany: true}
}

// UnmarshalTOML decodes a string or a (nested) array of strings.
func (f *FeatureSet) UnmarshalTOML(v any) error {
	set, err := featureSetFromValue(v)
	if err != nil {
		return err
	}
	*f = set
	return nil
}

func featureSetFromValue(v any) (FeatureSet, error) {
	switch val := v.(type) {
	case string:
		return One(val), nil
	case []any:
		sets := make([]FeatureSet, 0, len(val))
		for _, item := range val {
			set, err := featureSetFromValue(item)
			if err != nil {
				return FeatureSet{}, err
			}
			sets = append(sets, set)
		}
		return Many(sets...), nil
	default:
		return FeatureSet{}, fmt.Errorf("%w: expected a feature name or an array, got %T", ErrInvalidConfig, v)
	}
}

// TrueOrFeatureSet is a field that accepts the literal boolean true or a
// feature set. The literal false is rejected.
type TrueOrFeatureSet struct {
	isTrue  bool
	set     FeatureSet
	defined bool
}

// True returns a TrueOrFeatureSet holding the literal true.
func True() TrueOrFeatureSet {
	return TrueOrFeatureSet{isTrue: true, defined: true}
}

// Set returns a TrueOrFeatureSet holding a feature set.
func Set(set FeatureSet) TrueOrFeatureSet {
	return TrueOrFeatureSet{set: set, defined: true}
}

// UnmarshalTOML decodes the literal true or a feature set.
func (t *TrueOrFeatureSet) UnmarshalTOML(v any) error {
	if b, ok := v.(bool); ok {
		if !b {
			return fmt.Errorf("%w: the literal false is not allowed; omit the field instead", ErrInvalidConfig)
		}
		*t = True()
		return nil
	}

	set, err := featureSetFromValue(v)
	if err != nil {
		return err
	}
	*t = Set(set)
	return nil
}

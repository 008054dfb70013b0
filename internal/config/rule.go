// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package config

import (
	"fmt"

	"github.com/TheBevyFlock/flag-frenzy/internal/intern"
)

// orKeyword is the reserved infix operator in feature sets. It has the same
// precedence as the implicit AND between neighboring items and associates
// left; nested lists group.
const orKeyword = "OR"

// Rule is a compiled feature rule that can be evaluated against
// combinations.
type Rule struct {
	when    featureExpr
	require featureExpr
	forbid  featureExpr
}

// CompileRule compiles a schema rule against a storage. Feature names are
// converted to keys without being interned: a rule mentioning a feature the
// package does not have simply never matches it.
func CompileRule(schema RuleSchema, storage *intern.FeatureStorage) (Rule, error) {
	var rule Rule
	var err error

	if err := schema.Validate(); err != nil {
		return Rule{}, err
	}

	if schema.When.isTrue {
		// If true, the rule always applies.
		rule.when = exprAlways{}
	} else {
		rule.when, err = parseFeatureSet(schema.When.set, storage)
		if err != nil {
			return Rule{}, err
		}
	}

	if schema.Require == nil {
		// With no requirements, always pass.
		rule.require = exprAlways{}
	} else {
		rule.require, err = parseFeatureSet(*schema.Require, storage)
		if err != nil {
			return Rule{}, err
		}
	}

	switch {
	case schema.Forbid == nil:
		// With nothing forbidden, never fail.
		rule.forbid = exprNever{}
	case schema.Forbid.isTrue:
		// If true, always fail.
		rule.forbid = exprAlways{}
	case schema.Forbid.set.isMany && len(schema.Forbid.set.many) == 0:
		// An empty list forbids nothing.
		rule.forbid = exprNever{}
	default:
		rule.forbid, err = parseFeatureSet(schema.Forbid.set, storage)
		if err != nil {
			return Rule{}, err
		}
	}

	return rule, nil
}

// CompileRules compiles every rule of a crate's configuration.
func CompileRules(schemas []RuleSchema, storage *intern.FeatureStorage) ([]Rule, error) {
	rules := make([]Rule, 0, len(schemas))

	for i, schema := range schemas {
		rule, err := CompileRule(schema, storage)
		if err != nil {
			return nil, fmt.Errorf("compiling rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// Validate returns true if the features in a given combination pass this
// rule.
func (r Rule) Validate(combo []intern.FeatureKey) bool {
	if r.when.evaluate(combo) {
		return r.require.evaluate(combo) && !r.forbid.evaluate(combo)
	}
	return true
}

// featureExpr is a compiled boolean expression over feature keys.
type featureExpr interface {
	evaluate(combo []intern.FeatureKey) bool
}

// exprAlways always evaluates as true.
type exprAlways struct{}

// exprNever always evaluates as false.
type exprNever struct{}

// exprContains evaluates as true if the combination contains the key.
type exprContains struct {
	key intern.FeatureKey
}

// exprAnd evaluates as true if both expressions are true.
type exprAnd struct {
	left, right featureExpr
}

// exprOr evaluates as true if at least one expression is true.
type exprOr struct {
	left, right featureExpr
}

func (exprAlways) evaluate([]intern.FeatureKey) bool { return true }

func (exprNever) evaluate([]intern.FeatureKey) bool { return false }

func (e exprContains) evaluate(combo []intern.FeatureKey) bool {
	// Combinations are small, so a linear probe beats anything fancier.
	for _, key := range combo {
		if key == e.key {
			return true
		}
	}
	return false
}

func (e exprAnd) evaluate(combo []intern.FeatureKey) bool {
	return e.left.evaluate(combo) && e.right.evaluate(combo)
}

func (e exprOr) evaluate(combo []intern.FeatureKey) bool {
	return e.left.evaluate(combo) || e.right.evaluate(combo)
}

// parseFeatureSet compiles a feature set into an expression.
//
// A list is folded left to right: "OR" consumes the next item as the right
// operand, anything else is AND-ed onto the accumulator. An empty list
// compiles to always-true; the forbid position's empty-list special case is
// handled by CompileRule.
func parseFeatureSet(set FeatureSet, storage *intern.FeatureStorage) (featureExpr, error) {
	if !set.isMany {
		// A standalone "OR" operator is not allowed.
		if set.one == orKeyword {
			return nil, fmt.Errorf("%w: %q is reserved and cannot appear without operands", ErrInvalidConfig, orKeyword)
		}
		return exprContains{key: storage.CreateKey(set.one)}, nil
	}

	if len(set.many) == 0 {
		return exprAlways{}, nil
	}

	acc, err := parseFeatureSet(set.many[0], storage)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(set.many); i++ {
		item := set.many[i]

		if !item.isMany && item.one == orKeyword {
			i++
			if i == len(set.many) {
				return nil, fmt.Errorf("%w: expected a value after %q", ErrInvalidConfig, orKeyword)
			}

			rhs, err := parseFeatureSet(set.many[i], storage)
			if err != nil {
				return nil, err
			}

			acc = exprOr{left: acc, right: rhs}
			continue
		}

		rhs, err := parseFeatureSet(item, storage)
		if err != nil {
			return nil, err
		}

		acc = exprAnd{left: acc, right: rhs}
	}

	return acc, nil
}

// SPDX-License-Identifier: AGPL-3.0-or-later

/*

Flag Frenzy - Flag Frenzy is a Go-based CLI that exhaustively type-checks combinations of Cargo feature flags for every package in a workspace.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package combos implements the combination enumerator, the binomial
// estimator, and the filtered feature-combination pipeline.
package combos

import "fmt"

// Combos yields every combination of k unique indices drawn from the pool
// 0..n. It is a single-pass state machine: call Next until the second return
// value is false. Re-enumerating requires constructing a new Combos.
//
// Yielded slices contain unique indices in the range [0, n), sorted in
// ascending order, and always have length k. The first combination is
// (n-k, ..., n-2, n-1); each subsequent combination decrements the first
// index, and once that index reaches its lowest value the next position is
// decremented and the positions before it are refilled just below it. For
// n = 3, k = 2 the sequence is (1, 2), (0, 2), (0, 1). The n == k case is
// special-cased and yields (0, 1, ..., n-1) directly.
//
// Based on the walk described in https://stackoverflow.com/a/65244323,
// flattened into an explicit iterator.
type Combos struct {
	// The pool size, also known as n.
	poolSize int
	// Worked on in-place to calculate the next combination. Its length is k
	// and never changes. Yielded combinations are copies of this.
	output []int
	// The index into output.
	i int
	// Tracks whether the iterator is within the outer or inner loop of the
	// original nested-loop formulation.
	inInnerLoop bool
	// Tracks whether the iterator has yielded all combinations.
	done bool
}

// NewCombos returns a Combos over a pool of size n yielding combinations of
// length k.
//
// If k is 0 the iterator yields one empty combination before finishing.
//
// Panics if n < k: sampling a group larger than the pool is a programmer
// error.
func NewCombos(n, k int) *Combos {
	if n < k {
		panic(fmt.Sprintf("cannot sample a group (%d) larger than the original (%d)", k, n))
	}

	// Edge case where the combination size is 0.
	if k == 0 {
		return &Combos{poolSize: n}
	}

	output := make([]int, k)
	i := k - 1
	output[i] = n - 1

	return &Combos{
		poolSize: n,
		output:   output,
		i:        i,
	}
}

// Next returns the next combination, or false when the iterator is finished.
// Once finished it keeps returning false.
func (c *Combos) Next() ([]int, bool) {
	if c.done {
		return nil, false
	}

	// The walk below never terminates when n == k, so just yield the whole
	// pool.
	if c.poolSize == len(c.output) {
		c.done = true
		full := make([]int, c.poolSize)
		for i := range full {
			full[i] = i
		}
		return full, true
	}

	if len(c.output) == 0 {
		c.done = true
		return []int{}, true
	}

	if !c.inInnerLoop {
		tmp := c.output[c.i]

		for c.i > 0 {
			c.i--
			tmp--
			c.output[c.i] = tmp
		}

		c.inInnerLoop = true

		return c.yield(), true
	}

	c.output[c.i]--

	if c.output[c.i] != c.i {
		// Equivalent of a break, using single-depth recursion to reach the
		// inInnerLoop == false branch.
		c.inInnerLoop = false
		return c.Next()
	}

	c.i++

	if c.i == len(c.output) {
		// Equivalent of a return.
		c.done = true
	}

	return c.yield(), true
}

// yield copies the working buffer so callers can hold onto it.
func (c *Combos) yield() []int {
	out := make([]int, len(c.output))
	copy(out, c.output)
	return out
}

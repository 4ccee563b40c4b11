// Copyright 2026 The Linkgrammar-Core Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dedup collapses structurally identical disjuncts on a per-word
// list, keeping the minimum cost (spec §4.5).
package dedup

import (
	"github.com/dolthub/linkgrammar-core/connector"
	"github.com/dolthub/linkgrammar-core/disjunct"
	"github.com/dolthub/linkgrammar-core/tracon"
)

// Mode selects the equality relation used to find duplicates (spec §4.5).
type Mode uint8

const (
	// Standard equality compares only the left and right connector chains.
	Standard Mode = iota
	// Generation equality additionally requires equal WordString.
	Generation
)

// key identifies a disjunct's equality class. Left/Right are canonical
// tracon handles, so key comparison is pointer comparison, not a deep
// walk — this is what gives the component its near-linear complexity
// target (spec §4.5).
type key struct {
	left, right *connector.Connector
	wordString  string
	hasWord     bool
}

// Eliminate collapses duplicates in head according to mode, using set to
// canonicalize each disjunct's left and right chains. set is never reset by
// this function; chains already in it act as canonical objects for this
// call too. The sentence driver resets it before each word's call, so its
// canonical objects are scoped to one word.
//
// Eliminate is idempotent: running it again on its own output is a no-op,
// since every surviving disjunct's chains are already canonical tracon
// handles and no two distinct keys collide (spec §5's "recovery" note).
func Eliminate(head *disjunct.Disjunct, set *tracon.Set, mode Mode) *disjunct.Disjunct {
	seen := make(map[key]*disjunct.Disjunct)
	order := make([]key, 0)

	for d := head; d != nil; d = d.Next {
		d.Left = canonicalize(set, d.Left)
		d.Right = canonicalize(set, d.Right)

		k := key{left: d.Left, right: d.Right}
		if mode == Generation {
			k.hasWord = true
			if d.WordString != nil {
				k.wordString = *d.WordString
			}
		}

		existing, ok := seen[k]
		if !ok {
			seen[k] = d
			order = append(order, k)
			continue
		}
		merge(existing, d)
	}

	var newHead, newTail *disjunct.Disjunct
	for _, k := range order {
		d := seen[k]
		d.Next = nil
		if newHead == nil {
			newHead = d
		} else {
			newTail.Next = d
		}
		newTail = d
	}
	return newHead
}

// canonicalize interns chain into set, returning the canonical chain for
// its structural-equality class so future comparisons are pointer
// comparisons.
func canonicalize(set *tracon.Set, chain *connector.Connector) *connector.Connector {
	if chain == nil {
		return nil
	}
	if canon, ok := set.Lookup(chain); ok {
		return canon
	}
	set.Insert(chain)
	return chain
}

// merge folds dup into kept in place, per spec §4.5: keep the smaller
// cost, breaking ties by keeping the earlier (kept, since it was seen
// first); category-encoded disjuncts merge by union of their category
// arrays, preserving each entry's own cost.
func merge(kept, dup *disjunct.Disjunct) {
	if kept.IsCategory && dup.IsCategory {
		kept.Categories = unionCategories(kept.Categories, dup.Categories)
		return
	}
	if dup.Cost < kept.Cost {
		kept.Cost = dup.Cost
	}
}

// unionCategories merges two category arrays by category number, keeping
// the minimum cost for numbers present in both, and preserves the
// zero-value terminator entry at the end (spec §4.3, §4.5).
func unionCategories(a, b []disjunct.Category) []disjunct.Category {
	byNum := make(map[int]float64, len(a)+len(b))
	order := make([]int, 0, len(a)+len(b))
	add := func(cs []disjunct.Category) {
		for _, c := range cs {
			if c.Num == 0 {
				continue // terminator, re-appended below
			}
			if existing, ok := byNum[c.Num]; !ok || c.Cost < existing {
				if !ok {
					order = append(order, c.Num)
				}
				byNum[c.Num] = c.Cost
			}
		}
	}
	add(a)
	add(b)

	cap := len(order) + 1
	if cap < disjunct.MinCategoryCapacity {
		cap = disjunct.MinCategoryCapacity
	}
	out := make([]disjunct.Category, 0, cap)
	for _, num := range order {
		out = append(out, disjunct.Category{Num: num, Cost: byNum[num]})
	}
	out = append(out, disjunct.Category{Num: 0, Cost: 0})
	return out
}

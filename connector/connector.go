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

// Package connector defines the final, pool-allocated Connector type (spec
// §3) shared by the disjunct builder, tracon set, duplicate eliminator and
// preparator.
package connector

import "github.com/dolthub/linkgrammar-core/descriptor"

// Direction is which half-link chain a Connector belongs to on its
// disjunct. It is redundant with "which chain the connector is reachable
// from" but is kept explicit on the struct because SameAs and the tracon
// set's hash compare it without the enclosing Disjunct.
type Direction uint8

const (
	// Left connectors point at words to the left ('-' in the expression
	// language).
	Left Direction = iota
	// Right connectors point at words to the right ('+').
	Right
)

func (d Direction) String() string {
	if d == Left {
		return "-"
	}
	return "+"
}

// Connector is one typed half-link. It is allocated from a per-sentence
// Pool and survives until sentence teardown (spec §3).
type Connector struct {
	Descriptor *descriptor.Descriptor
	Multi      bool
	Direction  Direction

	// ExpPos is the monotonic position id assigned to the source
	// CONNECTOR node during clause expansion (spec §4.2), reused here as
	// exp_pos so later stages can correlate a materialized connector back
	// to the expression-tree node it came from.
	ExpPos int

	// FarthestWord is copied from the source CONNECTOR node's bound.
	FarthestWord int

	// NearestWord is computed by the preparator (spec §4.6); -1 until set.
	NearestWord int

	// Shallow is true iff this connector is the first connector of its
	// chain on its disjunct, set by the preparator after pruning.
	Shallow bool

	// OriginatingGword is opaque to the core; it is stamped through from
	// the disjunct's provenance field during preparation and otherwise
	// never inspected.
	OriginatingGword interface{}

	// Next links to the following connector in the chain, or nil at the
	// end of the chain.
	Next *Connector
}

// SameAs reports whether c and o are structurally equal for the purposes
// of the tracon set and the duplicate eliminator (spec §4.4, §4.5):
// identical descriptor by identity, identical Multi flag and identical
// Direction. Direction must participate: a sentence's tracon set is shared
// across every word's left and right chains (SPEC_FULL.md §12.3), so
// without it a left-going and a right-going connector built from the same
// descriptor would compare equal and canonicalize to the same chain,
// silently merging two directionally distinct connectors.
func (c *Connector) SameAs(o *Connector) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Descriptor == o.Descriptor && c.Multi == o.Multi && c.Direction == o.Direction
}

// ChainLen counts the connectors reachable from head, following Next.
func ChainLen(head *Connector) int {
	n := 0
	for c := head; c != nil; c = c.Next {
		n++
	}
	return n
}

// ChainEqual reports whether two chains have the same length and every
// corresponding pair of connectors is SameAs. If shallowDiscriminating is
// true, the heads must also agree on Shallow (spec §4.4's shallow-mode).
func ChainEqual(a, b *Connector, shallowDiscriminating bool) bool {
	if shallowDiscriminating && a != nil && b != nil && a.Shallow != b.Shallow {
		return false
	}
	for a != nil && b != nil {
		if !a.SameAs(b) {
			return false
		}
		a, b = a.Next, b.Next
	}
	return a == nil && b == nil
}

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

package dedup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/linkgrammar-core/connector"
	"github.com/dolthub/linkgrammar-core/descriptor"
	"github.com/dolthub/linkgrammar-core/disjunct"
	"github.com/dolthub/linkgrammar-core/intern"
	"github.com/dolthub/linkgrammar-core/tracon"
)

func chain(reg *descriptor.Registry, names ...string) *connector.Connector {
	var head, tail *connector.Connector
	for _, n := range names {
		c := &connector.Connector{Descriptor: reg.Lookup(n)}
		if head == nil {
			head = c
		} else {
			tail.Next = c
		}
		tail = c
	}
	return head
}

func count(head *disjunct.Disjunct) int {
	n := 0
	for d := head; d != nil; d = d.Next {
		n++
	}
	return n
}

// Scenario 5 of spec §8: two disjuncts with identical chains but costs
// {0.3, 0.1} collapse to one with cost 0.1.
func TestEliminateKeepsMinimumCost(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	d1 := &disjunct.Disjunct{Right: chain(reg, "A"), Cost: 0.3}
	d2 := &disjunct.Disjunct{Right: chain(reg, "A"), Cost: 0.1}
	d1.Next = d2

	out := Eliminate(d1, tracon.New(false), Standard)
	require.Equal(t, 1, count(out))
	require.InDelta(t, 0.1, out.Cost, 1e-9)
}

func TestEliminateKeepsDistinctDisjuncts(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	d1 := &disjunct.Disjunct{Right: chain(reg, "A")}
	d2 := &disjunct.Disjunct{Right: chain(reg, "B")}
	d1.Next = d2

	out := Eliminate(d1, tracon.New(false), Standard)
	require.Equal(t, 2, count(out))
}

func TestEliminateIsIdempotent(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	d1 := &disjunct.Disjunct{Right: chain(reg, "A"), Cost: 0.3}
	d2 := &disjunct.Disjunct{Right: chain(reg, "A"), Cost: 0.1}
	d3 := &disjunct.Disjunct{Right: chain(reg, "B"), Cost: 1.0}
	d1.Next = d2
	d2.Next = d3

	set := tracon.New(false)
	once := Eliminate(d1, set, Standard)
	require.Equal(t, 2, count(once))

	twice := Eliminate(once, set, Standard)
	require.Equal(t, 2, count(twice))
}

func TestGenerationModeDistinguishesByWordString(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	w1, w2 := "foo", "bar"
	d1 := &disjunct.Disjunct{Right: chain(reg, "A"), WordString: &w1}
	d2 := &disjunct.Disjunct{Right: chain(reg, "A"), WordString: &w2}
	d1.Next = d2

	out := Eliminate(d1, tracon.New(false), Generation)
	require.Equal(t, 2, count(out))
}

// A left-going chain and a right-going chain built from identical
// descriptors/Multi must canonicalize to distinct objects: Eliminate
// shares one tracon.Set across both a disjunct's Left and Right chains, so
// without Direction in the equality relation the second canonicalize call
// would silently hand back the first chain's (wrong-direction) connector.
func TestEliminateDoesNotAliasLeftAndRightChains(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	left := chain(reg, "A")
	left.Direction = connector.Left
	right := chain(reg, "A")
	right.Direction = connector.Right

	d1 := &disjunct.Disjunct{Left: left}
	d2 := &disjunct.Disjunct{Right: right}
	d1.Next = d2

	out := Eliminate(d1, tracon.New(false), Standard)
	require.Equal(t, 2, count(out))

	for d := out; d != nil; d = d.Next {
		if d.Right != nil {
			require.Equal(t, connector.Right, d.Right.Direction, "Right chain must not have been canonicalized onto a Left-direction connector")
		}
		if d.Left != nil {
			require.Equal(t, connector.Left, d.Left.Direction, "Left chain must not have been canonicalized onto a Right-direction connector")
		}
	}
}

func TestCategoryDisjunctsMergeByCategoryUnion(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	d1 := &disjunct.Disjunct{
		Right:      chain(reg, "A"),
		IsCategory: true,
		Categories: []disjunct.Category{{Num: 1, Cost: 0.5}, {Num: 0, Cost: 0}},
	}
	d2 := &disjunct.Disjunct{
		Right:      chain(reg, "A"),
		IsCategory: true,
		Categories: []disjunct.Category{{Num: 2, Cost: 0.2}, {Num: 0, Cost: 0}},
	}
	d1.Next = d2

	out := Eliminate(d1, tracon.New(false), Standard)
	require.Equal(t, 1, count(out))
	require.Len(t, out.Categories, 3) // {1,2} plus terminator
}

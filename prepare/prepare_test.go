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

package prepare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/linkgrammar-core/connector"
	"github.com/dolthub/linkgrammar-core/descriptor"
	"github.com/dolthub/linkgrammar-core/disjunct"
	"github.com/dolthub/linkgrammar-core/intern"
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

// Scenario 2 of spec §8: AND(A-,B+) on word w=1 of L=3: A.nearest_word=0,
// B.nearest_word=2, both shallow.
func TestWordStampsNearestWordAndShallow(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	d := &disjunct.Disjunct{Left: chain(reg, "A"), Right: chain(reg, "B")}

	out := Word(d, 1, 3, nil)
	require.Equal(t, 1, count(out))
	require.Equal(t, 0, out.Left.NearestWord)
	require.True(t, out.Left.Shallow)
	require.Equal(t, 2, out.Right.NearestWord)
	require.True(t, out.Right.Shallow)
}

// Scenario 1 of spec §8: CONNECTOR("A",+) on w=0 of L=2 survives with
// right[0].nearest_word=1, shallow=true.
func TestWordSingleRightConnector(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	d := &disjunct.Disjunct{Right: chain(reg, "A")}

	out := Word(d, 0, 2, nil)
	require.Equal(t, 1, count(out))
	require.Equal(t, 1, out.Right.NearestWord)
	require.True(t, out.Right.Shallow)
}

// Scenario 6 of spec §8: word 0 of L=3, left=[A,B] (length 2): A's
// nearest_word would be -1, so the disjunct is dropped.
func TestWordPrunesWhenLeftChainReachesBelowZero(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	d := &disjunct.Disjunct{Left: chain(reg, "A", "B")}

	var pruned int
	out := Word(d, 0, 3, func() { pruned++ })
	require.Nil(t, out)
	require.Equal(t, 1, pruned)
}

func TestWordPrunesWhenRightChainReachesAtOrBeyondL(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	d := &disjunct.Disjunct{Right: chain(reg, "A")}

	out := Word(d, 2, 3, nil) // right head would be nearest_word=3, L=3 -> out of range
	require.Nil(t, out)
}

func TestSentenceLengthOneDropsAnyNonEmptyChain(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	d := &disjunct.Disjunct{Right: chain(reg, "A")}
	out := Word(d, 0, 1, nil)
	require.Nil(t, out)

	empty := &disjunct.Disjunct{}
	out2 := Word(empty, 0, 1, nil)
	require.Equal(t, 1, count(out2))
}

func TestWordStampsProvenanceFromDisjunct(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	prov := "gword-42"
	d := &disjunct.Disjunct{Right: chain(reg, "A"), Provenance: prov}

	out := Word(d, 0, 2, nil)
	require.Equal(t, prov, out.Right.OriginatingGword)
}

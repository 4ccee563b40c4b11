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

// Package prepare implements the preparator (spec §4.6): it stamps
// nearest_word on every connector of a word's disjunct list, drops
// disjuncts that cannot link within the sentence, marks the surviving
// chain heads shallow, and stamps originating_gword from provenance.
package prepare

import (
	"github.com/dolthub/linkgrammar-core/connector"
	"github.com/dolthub/linkgrammar-core/disjunct"
)

// Word prepares one word's disjunct list in place and returns the
// (possibly shorter) surviving list. w is the word's index and L is the
// sentence length, both 0-based (spec §4.6). onPrune, if non-nil, is
// invoked once per disjunct dropped for falling off the sentence edge,
// e.g. to drive an lgmetrics.Registry counter.
func Word(head *disjunct.Disjunct, w, L int, onPrune func()) *disjunct.Disjunct {
	var newHead, newTail *disjunct.Disjunct

	for d := head; d != nil; {
		next := d.Next
		d.Next = nil

		leftDeepest := stampChain(d.Left, w-1, -1)
		rightDeepest := stampChain(d.Right, w+1, 1)

		if leftDeepest < 0 || rightDeepest >= L {
			if onPrune != nil {
				onPrune()
			}
			d = next
			continue // spec §4.6: cannot link within the sentence, drop
		}

		if d.Left != nil {
			d.Left.Shallow = true
		}
		if d.Right != nil {
			d.Right.Shallow = true
		}
		stampProvenance(d)

		if newHead == nil {
			newHead = d
		} else {
			newTail.Next = d
		}
		newTail = d
		d = next
	}
	return newHead
}

// stampChain sets NearestWord along chain starting at start and moving by
// step per connector (spec §4.6: head = w∓1, each deeper connector one word
// farther). It returns the deepest (last) connector's NearestWord, or
// start-step (i.e. w itself) if chain is empty — which is always in range
// and so never causes an empty chain to be dropped.
func stampChain(chain *connector.Connector, start, step int) int {
	if chain == nil {
		return start - step
	}
	nw := start
	for c := chain; c != nil; c = c.Next {
		c.NearestWord = nw
		nw += step
	}
	return nw - step
}

// stampProvenance copies the disjunct's opaque provenance onto every
// connector of both chains (spec §4.6's final step).
func stampProvenance(d *disjunct.Disjunct) {
	for c := d.Left; c != nil; c = c.Next {
		c.OriginatingGword = d.Provenance
	}
	for c := d.Right; c != nil; c = c.Next {
		c.OriginatingGword = d.Provenance
	}
}

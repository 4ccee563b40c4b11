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

// Package disjunct materializes a word's clause list into disjuncts (spec
// §4.3): left-going and right-going connector chains plus a cost, filtered
// by a cost cutoff and optionally down-sampled to a hard cap.
package disjunct

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/dolthub/linkgrammar-core/clause"
	"github.com/dolthub/linkgrammar-core/connector"
	"github.com/dolthub/linkgrammar-core/expr"
	"github.com/dolthub/linkgrammar-core/lgerrors"
	"github.com/dolthub/linkgrammar-core/pool"
)

// MinCategoryCapacity is the minimum capacity spec §4.3 requires for a
// category-encoded disjunct's category array: one real entry plus a
// zero-terminator.
const MinCategoryCapacity = 4

// Category is one {num, cost} entry of a category-encoded disjunct.
type Category struct {
	Num  int
	Cost float64
}

// Disjunct is one legal connection requirement for a word occurrence: a
// left chain and a right chain of connectors plus a cost (spec §3).
type Disjunct struct {
	Left  *connector.Connector
	Right *connector.Connector

	// WordString is set for an ordinary (non-category-encoded) disjunct.
	WordString *string
	Cost       float64

	// IsCategory and Categories are set for a category-encoded disjunct
	// (spec §4.3, §6). Categories always has a trailing zero-value
	// terminator entry, preserving the C-array convention the original
	// format encodes, even though Go slices do not need a sentinel.
	IsCategory bool
	Categories []Category

	// Provenance is opaque to this package; it is stamped onto every
	// connector's OriginatingGword by the preparator (spec §4.6).
	Provenance interface{}

	Next *Disjunct
}

// Pools bundles the two long-lived, per-sentence pools disjuncts and their
// connectors are allocated from. They are released at sentence teardown,
// not reset between words (spec §3).
type Pools struct {
	Connectors *pool.Pool[connector.Connector]
	Disjuncts  *pool.Pool[Disjunct]
}

// NewPools constructs per-sentence pools sized for slabSize elements per
// slab.
func NewPools(slabSize int) *Pools {
	return &Pools{
		Connectors: pool.New[connector.Connector](slabSize, false),
		Disjuncts:  pool.New[Disjunct](slabSize, false),
	}
}

func (p *Pools) Destroy() {
	p.Connectors.Destroy()
	p.Disjuncts.Destroy()
}

// BuildOptions configures Build.
type BuildOptions struct {
	// Cutoff discards any clause whose accumulated cost exceeds it
	// (spec §4.3 step 2); "exactly equal to cutoff" is kept.
	Cutoff float64

	// MaxDisjuncts caps the number of disjuncts kept per word; 0 disables
	// down-sampling regardless of how many were built (spec §4.3, §8).
	MaxDisjuncts int

	// RandState seeds the down-sampler's PRNG. A nonzero value makes
	// down-sampling reproducible; 0 selects the system generator
	// (spec §4.3, §9).
	RandState int64

	// Provenance is stamped onto every built disjunct, opaque to this
	// package.
	Provenance interface{}

	// OnCutoffPrune and OnDownsamplePrune, when set, are invoked once per
	// clause/disjunct discarded by the cost cutoff and by down-sampling
	// respectively, e.g. to drive an lgmetrics.Registry's counters.
	OnCutoffPrune     func()
	OnDownsamplePrune func()
}

// Build materializes clauses into a disjunct list for one word (spec
// §4.3). The returned list is in reverse order of the input clause list,
// per the "disjuncts are prepended to the per-word list" rule; callers
// that need clause order preserved should not rely on list order (the
// spec notes downstream components besides duplicate elimination do not
// depend on it).
func Build(ctx context.Context, clauses *clause.Clause, wordString string, pools *Pools, opts BuildOptions) (*Disjunct, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "disjunct.Build")
	defer span.Finish()

	var head *Disjunct
	for cl := clauses; cl != nil; cl = cl.Next {
		if cl.Head == nil {
			continue // spec §4.3 step 1: empty half-link list discarded
		}
		if cl.Cost > opts.Cutoff {
			if opts.OnCutoffPrune != nil {
				opts.OnCutoffPrune()
			}
			continue // spec §4.3 step 2: cutoff is inclusive (<=)
		}

		d, err := materialize(cl, wordString, pools, opts.Provenance)
		if err != nil {
			return nil, err
		}
		d.Next = head
		head = d
	}

	if opts.MaxDisjuncts > 0 {
		head = downsample(head, opts.MaxDisjuncts, opts.RandState, opts.OnDownsamplePrune)
	}
	return head, nil
}

func materialize(cl *clause.Clause, wordString string, pools *Pools, provenance interface{}) (*Disjunct, error) {
	d, err := pools.Disjuncts.Alloc()
	if err != nil {
		return nil, errors.Wrap(err, "disjunct.materialize")
	}
	d.Provenance = provenance
	d.Next = nil

	var rightHead, rightTail *connector.Connector
	rightSealed := false
	var leftEntries []*clause.TempLink

	for tl := cl.Head; tl != nil; tl = tl.Next {
		src := tl.Source
		switch src.Direction {
		case connector.Left:
			// Collected, not materialized, in source order: the final
			// left chain is built in reverse (see materializeLeftChain)
			// once the whole subsequence is known.
			leftEntries = append(leftEntries, tl)
		case connector.Right:
			if rightSealed {
				continue
			}
			c, sealed, err := materializeHalfLink(tl, src, pools)
			if err != nil {
				return nil, err
			}
			if rightHead == nil {
				rightHead = c
			} else {
				rightTail.Next = c
			}
			if sealed {
				rightSealed = true
			} else {
				rightTail = c
			}
		default:
			return nil, errors.Wrap(lgerrors.ErrMalformedExpression.New(fmt.Sprintf("connector direction %v", src.Direction)), "disjunct.materialize")
		}
	}

	leftHead, err := materializeLeftChain(leftEntries, pools)
	if err != nil {
		return nil, err
	}

	d.Left = leftHead
	d.Right = rightHead

	if err := finalizeWordString(d, wordString, cl.Cost); err != nil {
		return nil, err
	}
	return d, nil
}

// materializeLeftChain builds the left connector chain in the order spec
// §4.1 requires: reversed relative to the source expression's left-to-right
// appearance order, so the head of the final chain is the CONNECTOR that
// appeared LAST among the clause's left-direction entries. This matters
// observably, not just structurally: the preparator stamps the chain head's
// nearest_word = w-1 (spec §4.6), so which source connector becomes the
// head determines which one sits nearest the word.
//
// Unlike the right chain, left entries are not routed through
// materializeHalfLink's cache-adopt-and-seal shortcut: that mechanism
// adopts a previously materialized connector together with its already
// built Next chain wholesale, which is only correct when the chain is
// walked and linked in the same order it was originally built in. Reversal
// requires the full subsequence up front, so every left connector is
// freshly allocated here.
func materializeLeftChain(entries []*clause.TempLink, pools *Pools) (*connector.Connector, error) {
	var head *connector.Connector
	for i := 0; i < len(entries); i++ {
		tl := entries[i]
		src := tl.Source
		c, err := pools.Connectors.Alloc()
		if err != nil {
			return nil, errors.Wrap(err, "disjunct.materializeLeftChain")
		}
		c.Descriptor = src.Descriptor
		c.Multi = src.Multi
		c.Direction = src.Direction
		c.ExpPos = tl.ExpPos
		c.FarthestWord = src.FarthestWord
		c.NearestWord = -1
		c.Shallow = false
		c.OriginatingGword = nil
		c.Next = head
		head = c
	}
	return head, nil
}

// materializeHalfLink implements spec §4.3 step 3 for a single temp link on
// the right chain: adopt a cached connector wholesale (reporting that this
// direction is now sealed for the remainder of the clause), or allocate,
// cache and return a fresh one. Only the right chain uses this shortcut;
// see materializeLeftChain for why the left chain cannot.
func materializeHalfLink(tl *clause.TempLink, src *expr.ConnectorNode, pools *Pools) (c *connector.Connector, sealed bool, err error) {
	if cached := tl.Cache(); cached != nil {
		return cached.(*connector.Connector), true, nil
	}

	c, err = pools.Connectors.Alloc()
	if err != nil {
		return nil, false, errors.Wrap(err, "disjunct.materializeHalfLink")
	}
	c.Descriptor = src.Descriptor
	c.Multi = src.Multi
	c.Direction = src.Direction
	c.ExpPos = tl.ExpPos
	c.FarthestWord = src.FarthestWord
	c.NearestWord = -1
	c.Shallow = false
	c.OriginatingGword = nil
	c.Next = nil

	tl.SetCache(c)
	return c, false, nil
}

// finalizeWordString implements spec §4.3 step 4. A word string whose
// first byte is ASCII space (0x20) is a category-encoded word (spec §6):
// the remainder is a hexadecimal category number in (0, 65536), stored as
// a single-entry category array (plus a zero-value terminator, capacity
// MinCategoryCapacity) rather than a plain word string.
func finalizeWordString(d *Disjunct, wordString string, cost float64) error {
	if len(wordString) > 0 && wordString[0] == ' ' {
		num, err := strconv.ParseInt(wordString[1:], 16, 32)
		if err != nil {
			return errors.Wrap(lgerrors.ErrCorruptDictionary.New(fmt.Sprintf("invalid category word string %q: %v", wordString, err)), "disjunct.finalizeWordString")
		}
		if num <= 0 || num >= 65536 {
			return errors.Wrap(lgerrors.ErrCorruptDictionary.New(fmt.Sprintf("category number %d out of range (0,65536)", num)), "disjunct.finalizeWordString")
		}
		d.IsCategory = true
		d.Categories = make([]Category, 0, MinCategoryCapacity)
		d.Categories = append(d.Categories, Category{Num: int(num), Cost: cost})
		d.Categories = append(d.Categories, Category{Num: 0, Cost: 0}) // zero-terminator
		// Per SPEC_FULL.md §9's open question, the top-level Cost field's
		// meaning for a category-encoded disjunct is left unspecified by
		// the source this spec distills; we still set it to the clause's
		// cost (consistent with an ordinary disjunct) rather than leaving
		// it unset, since leaving a float64 field at its zero value would
		// be indistinguishable from an explicit zero cost.
		d.Cost = cost
		return nil
	}

	ws := wordString
	d.WordString = &ws
	d.Cost = cost
	return nil
}

// downsample implements the approximate reservoir policy of spec §4.3: keep
// the head, then for each subsequent entry independently keep it with
// probability max/n, appending kept entries onto a running tail. This is
// deliberately not a uniform reservoir (spec §9's second open question
// codifies the source's non-uniform rand_r() % discnt < maxdj policy as
// intentional).
func downsample(head *Disjunct, max int, randState int64, onPrune func()) *Disjunct {
	n := 0
	for d := head; d != nil; d = d.Next {
		n++
	}
	if n <= max {
		return head
	}

	var rng *rand.Rand
	if randState != 0 {
		rng = rand.New(rand.NewSource(randState))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	var newHead, newTail *Disjunct
	first := true
	d := head
	for d != nil {
		next := d.Next
		keep := first
		if !first {
			keep = rng.Float64() < float64(max)/float64(n)
		}
		first = false
		if keep {
			d.Next = nil
			if newHead == nil {
				newHead = d
			} else {
				newTail.Next = d
			}
			newTail = d
		} else if onPrune != nil {
			onPrune()
		}
		d = next
	}
	return newHead
}

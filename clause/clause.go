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

// Package clause expands a word's expression tree into a list of AND-clauses
// (spec §4.2): each clause is a flat, left-to-right sequence of temporary
// half-links plus an accumulated cost.
package clause

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/dolthub/linkgrammar-core/expr"
	"github.com/dolthub/linkgrammar-core/lgerrors"
	"github.com/dolthub/linkgrammar-core/pool"
)

// cacheCell is the mutable, set-once box the disjunct builder uses to find
// a temporary entry that an earlier clause already materialized (spec §9).
// Every TempLink has its own cell: expandConnector allocates one, and
// catenate gives each copy it makes a fresh one. A cell is therefore seen
// by more than one clause only when those clauses reach the same TempLink
// object, i.e. a tail that catenate linked by reference instead of copying.
type cacheCell struct {
	materialized interface{} // *connector.Connector, stored as interface{} to avoid an import cycle with package disjunct
}

// TempLink is one temporary half-link: a pool-allocated wrapper around the
// source CONNECTOR node plus its own cache cell (see cacheCell).
type TempLink struct {
	Source *expr.ConnectorNode
	ExpPos int
	Next   *TempLink

	cache *cacheCell
}

// Cache exposes the shared cache cell for package disjunct, which is the
// only other package allowed to read or set it.
func (t *TempLink) Cache() interface{} {
	return t.cache.materialized
}

// SetCache stores the materialized connector in t's cache cell, where every
// clause that reaches this same TempLink object will find it. Copies that
// catenate made of the entry have cells of their own and do not see it.
func (t *TempLink) SetCache(v interface{}) {
	t.cache.materialized = v
}

// Clause is one AND-clause: a flat half-link sequence plus its accumulated
// cost, and a Next link forming the clause list produced by Expand.
type Clause struct {
	Head *TempLink
	Cost float64
	Next *Clause
}

// Pools bundles the two scratch pools clause expansion allocates from.
// Both are reset at each word boundary and persist across words in a
// sentence (spec §3).
type Pools struct {
	Temp    *pool.Pool[TempLink]
	Clauses *pool.Pool[Clause]
}

// NewPools constructs scratch pools sized for slabSize elements per slab.
func NewPools(slabSize int) *Pools {
	return &Pools{
		Temp:    pool.New[TempLink](slabSize, false),
		Clauses: pool.New[Clause](slabSize, false),
	}
}

// Reset reclaims every clause/temp-link allocated for the word just
// finished, matching the word-boundary reset in spec §3/§5.
func (p *Pools) Reset() {
	p.Temp.Reset()
	p.Clauses.Reset()
}

// Destroy releases both pools at sentence teardown.
func (p *Pools) Destroy() {
	p.Temp.Destroy()
	p.Clauses.Destroy()
}

// Expand turns an expression tree into its list of clauses (spec §4.2).
// pos is a monotonic position counter shared across the whole word's
// expansion; each CONNECTOR node visited is assigned the next value and
// that value becomes the materialized connector's ExpPos later.
//
// The Cartesian fold for AND nodes is ordered so that the resulting
// half-link sequence matches true left-to-right appearance order
// (spec §4.2's explicit invariant): catenate(accumulated, next), not the
// reverse. It is the disjunct builder (package disjunct), not this
// package, that introduces the left-chain reversal noted in spec §4.1, by
// building the left-direction chain via prepend and the right-direction
// chain via append.
func Expand(ctx context.Context, node expr.Node, pools *Pools, pos *int) (*Clause, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "clause.Expand")
	defer span.Finish()
	return expand(node, pools, pos)
}

func expand(node expr.Node, pools *Pools, pos *int) (*Clause, error) {
	if node == nil {
		return nil, errors.Wrap(lgerrors.ErrMalformedExpression.New("nil node"), "clause.expand")
	}

	switch node.Kind() {
	case expr.KindConnector:
		n, ok := node.(*expr.ConnectorNode)
		if !ok {
			return nil, errors.Wrap(lgerrors.ErrMalformedExpression.New(fmt.Sprintf("CONNECTOR tag on %T", node)), "clause.expand")
		}
		return expandConnector(n, pools, pos)
	case expr.KindAnd:
		n, ok := node.(*expr.AndNode)
		if !ok {
			return nil, errors.Wrap(lgerrors.ErrMalformedExpression.New(fmt.Sprintf("AND tag on %T", node)), "clause.expand")
		}
		return expandAnd(n, pools, pos)
	case expr.KindOr:
		n, ok := node.(*expr.OrNode)
		if !ok {
			return nil, errors.Wrap(lgerrors.ErrMalformedExpression.New(fmt.Sprintf("OR tag on %T", node)), "clause.expand")
		}
		return expandOr(n, pools, pos)
	default:
		return nil, errors.Wrap(lgerrors.ErrMalformedExpression.New(fmt.Sprintf("unknown node kind %v", node.Kind())), "clause.expand")
	}
}

func expandConnector(n *expr.ConnectorNode, pools *Pools, pos *int) (*Clause, error) {
	tl, err := pools.Temp.Alloc()
	if err != nil {
		return nil, errors.Wrap(err, "clause.expandConnector")
	}
	*pos++
	tl.Source = n
	tl.ExpPos = *pos
	tl.Next = nil
	tl.cache = &cacheCell{}

	cl, err := pools.Clauses.Alloc()
	if err != nil {
		return nil, errors.Wrap(err, "clause.expandConnector")
	}
	cl.Head = tl
	cl.Cost = n.Cost
	cl.Next = nil
	return cl, nil
}

func expandAnd(n *expr.AndNode, pools *Pools, pos *int) (*Clause, error) {
	if len(n.Operands) == 0 {
		cl, err := pools.Clauses.Alloc()
		if err != nil {
			return nil, errors.Wrap(err, "clause.expandAnd")
		}
		cl.Head = nil
		cl.Cost = n.Cost
		cl.Next = nil
		return cl, nil
	}

	acc, err := expand(n.Operands[0], pools, pos)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Operands[1:] {
		next, err := expand(op, pools, pos)
		if err != nil {
			return nil, err
		}
		acc, err = cartesian(acc, next, pools)
		if err != nil {
			return nil, err
		}
	}
	for c := acc; c != nil; c = c.Next {
		c.Cost += n.Cost
	}
	return acc, nil
}

func expandOr(n *expr.OrNode, pools *Pools, pos *int) (*Clause, error) {
	var head, tail *Clause
	for _, op := range n.Operands {
		cl, err := expand(op, pools, pos)
		if err != nil {
			return nil, err
		}
		for c := cl; c != nil; c = c.Next {
			c.Cost += n.Cost
		}
		if cl == nil {
			continue
		}
		if head == nil {
			head = cl
		} else {
			tail.Next = cl
		}
		tail = cl
		for tail.Next != nil {
			tail = tail.Next
		}
	}
	return head, nil
}

// cartesian computes every (prefix, next) pair, producing one combined
// clause per pair whose half-link list is catenate(prefix.Head, next.Head)
// and whose cost is prefix.Cost + next.Cost.
func cartesian(prefix, next *Clause, pools *Pools) (*Clause, error) {
	var head, tail *Clause
	for p := prefix; p != nil; p = p.Next {
		for n := next; n != nil; n = n.Next {
			combinedHead, err := catenate(p.Head, n.Head, pools)
			if err != nil {
				return nil, err
			}
			c, err := pools.Clauses.Alloc()
			if err != nil {
				return nil, errors.Wrap(err, "clause.cartesian")
			}
			c.Head = combinedHead
			c.Cost = p.Cost + n.Cost
			c.Next = nil
			if head == nil {
				head = c
			} else {
				tail.Next = c
			}
			tail = c
		}
	}
	return head, nil
}

// catenate copies head1's entries into fresh pool-allocated temp links and
// links the last copy onto head2 by reference. head2 itself is never
// copied (spec §4.2) and so keeps whatever cache cells its entries already
// carry.
//
// Each copy made here gets a BRAND NEW cache cell rather than inheriting
// head1's: head1 is always the accumulated *prefix* of an AND fold (see
// cartesian below), and a prefix entry's eventual downstream chain differs
// across every (prefix, next) pairing the outer fold considers — it is
// only head2 (the later AND operand, reused unmodified across every prefix
// it is paired with) whose entries legitimately describe one shared
// continuation. Inheriting head1's cache cell across copies would let an
// unrelated pairing "adopt wholesale" a connector chain built for a
// different continuation, corrupting disjuncts silently. Giving head1's
// copies fresh cells, while leaving head2 untouched, is what makes the
// cache/seal mechanism in package disjunct sound: only genuinely
// reference-shared (never copied) temp links can ever produce a cache hit.
func catenate(head1, head2 *TempLink, pools *Pools) (*TempLink, error) {
	if head1 == nil {
		return head2, nil
	}
	var newHead, newTail *TempLink
	for t := head1; t != nil; t = t.Next {
		nt, err := pools.Temp.Alloc()
		if err != nil {
			return nil, errors.Wrap(err, "clause.catenate")
		}
		nt.Source = t.Source
		nt.ExpPos = t.ExpPos
		nt.cache = &cacheCell{}
		nt.Next = nil
		if newHead == nil {
			newHead = nt
		} else {
			newTail.Next = nt
		}
		newTail = nt
	}
	newTail.Next = head2
	return newHead, nil
}

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

// Package expr defines the read-only expression tree the dictionary loader
// builds per lexical entry (spec §3, §6): AND/OR nodes over typed
// CONNECTOR leaves. The core only ever reads these trees.
package expr

import (
	uuid "github.com/satori/go.uuid"

	"github.com/dolthub/linkgrammar-core/connector"
	"github.com/dolthub/linkgrammar-core/descriptor"
)

// Kind discriminates the three node variants of spec §3.
type Kind uint8

const (
	KindConnector Kind = iota
	KindAnd
	KindOr
)

func (k Kind) String() string {
	switch k {
	case KindConnector:
		return "CONNECTOR"
	case KindAnd:
		return "AND"
	case KindOr:
		return "OR"
	default:
		return "UNKNOWN"
	}
}

// Tag optionally decorates any node for diagnostics. It has no semantic
// effect on expansion.
type Tag struct {
	Name string
	ID   string
}

// NewTag builds a Tag, generating a random ID via satori/go.uuid when the
// caller does not supply one (SPEC_FULL.md §11).
func NewTag(name string, id string) *Tag {
	if id == "" {
		id = uuid.NewV4().String()
	}
	return &Tag{Name: name, ID: id}
}

// Node is any expression-tree node. Implementations are ConnectorNode,
// AndNode and OrNode; there is no other variant, and expansion (clause.Expand)
// fails with lgerrors.ErrMalformedExpression on anything else.
type Node interface {
	Kind() Kind
}

// ConnectorNode is a leaf carrying one half-link's connection requirement.
type ConnectorNode struct {
	Direction    connector.Direction
	Multi        bool
	Descriptor   *descriptor.Descriptor
	Cost         float64
	FarthestWord int
	Tag          *Tag
}

func (n *ConnectorNode) Kind() Kind { return KindConnector }

// NewConnector builds a CONNECTOR node from a descriptor already resolved
// through a descriptor.Registry.
func NewConnector(d *descriptor.Descriptor, dir connector.Direction, multi bool, cost float64, farthestWord int) *ConnectorNode {
	return &ConnectorNode{Descriptor: d, Direction: dir, Multi: multi, Cost: cost, FarthestWord: farthestWord}
}

// AndNode requires every operand to be satisfied; the Cartesian product of
// its operands' clause lists forms its own clause list (spec §4.2). Zero
// operands means "optional content" by convention (spec §3) and expands to
// a single empty clause.
type AndNode struct {
	Operands []Node
	Cost     float64
	Tag      *Tag
}

func (n *AndNode) Kind() Kind { return KindAnd }

// NewAnd builds an AND node.
func NewAnd(cost float64, operands ...Node) *AndNode {
	return &AndNode{Operands: operands, Cost: cost}
}

// OrNode requires exactly one operand to be chosen; its clause list is the
// concatenation of its operands' clause lists (spec §4.2). Zero operands
// means the whole branch is dead and contributes no clauses.
type OrNode struct {
	Operands []Node
	Cost     float64
	Tag      *Tag
}

func (n *OrNode) Kind() Kind { return KindOr }

// NewOr builds an OR node.
func NewOr(cost float64, operands ...Node) *OrNode {
	return &OrNode{Operands: operands, Cost: cost}
}

// Size computes |E| as defined in spec §8's testable property: 1 for a
// connector, the product of operand sizes for AND, the sum for OR. It is
// provided for tests that check the clause-count invariant, not used by
// the expansion algorithm itself (which never materializes this count up
// front, to avoid the pre-computed-Cartesian-product pitfall spec §4.2
// warns about).
func Size(n Node) int {
	switch t := n.(type) {
	case *ConnectorNode:
		return 1
	case *AndNode:
		if len(t.Operands) == 0 {
			return 1
		}
		size := 1
		for _, o := range t.Operands {
			size *= Size(o)
		}
		return size
	case *OrNode:
		size := 0
		for _, o := range t.Operands {
			size += Size(o)
		}
		return size
	default:
		return 0
	}
}

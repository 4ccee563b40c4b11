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

// Package testfixture loads YAML-described expression trees for
// table-driven tests (SPEC_FULL.md §10.4). The clause builder's test suite
// does not use it; its trees are built by hand with the expr constructors.
package testfixture

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/dolthub/linkgrammar-core/connector"
	"github.com/dolthub/linkgrammar-core/descriptor"
	"github.com/dolthub/linkgrammar-core/expr"
	"github.com/dolthub/linkgrammar-core/intern"
)

// node is the YAML-facing shape of one expression-tree node. Exactly one
// of Connector/And/Or should be set.
type node struct {
	Connector *connectorSpec `yaml:"connector,omitempty"`
	And       *groupSpec     `yaml:"and,omitempty"`
	Or        *groupSpec     `yaml:"or,omitempty"`
}

type connectorSpec struct {
	Name         string  `yaml:"name"`
	Direction    string  `yaml:"direction"` // "-" or "+"
	Multi        bool    `yaml:"multi"`
	Cost         float64 `yaml:"cost"`
	FarthestWord int     `yaml:"farthest_word"`
}

type groupSpec struct {
	Cost     float64 `yaml:"cost"`
	Operands []node  `yaml:"operands"`
}

// Load parses a single YAML document describing one expression tree, using
// reg to resolve connector names into descriptors.
func Load(data []byte, reg *descriptor.Registry) (expr.Node, error) {
	var n node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("testfixture.Load: %w", err)
	}
	return build(n, reg)
}

// NewRegistry is a convenience constructor for tests that don't otherwise
// need a shared interner.
func NewRegistry() *descriptor.Registry {
	return descriptor.NewRegistry(intern.New())
}

func build(n node, reg *descriptor.Registry) (expr.Node, error) {
	switch {
	case n.Connector != nil:
		return buildConnector(n.Connector, reg)
	case n.And != nil:
		ops, err := buildOperands(n.And.Operands, reg)
		if err != nil {
			return nil, err
		}
		return expr.NewAnd(n.And.Cost, ops...), nil
	case n.Or != nil:
		ops, err := buildOperands(n.Or.Operands, reg)
		if err != nil {
			return nil, err
		}
		return expr.NewOr(n.Or.Cost, ops...), nil
	default:
		return nil, fmt.Errorf("testfixture: node has no connector/and/or set")
	}
}

func buildOperands(ns []node, reg *descriptor.Registry) ([]expr.Node, error) {
	out := make([]expr.Node, 0, len(ns))
	for _, n := range ns {
		built, err := build(n, reg)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func buildConnector(c *connectorSpec, reg *descriptor.Registry) (expr.Node, error) {
	var dir connector.Direction
	switch c.Direction {
	case "-":
		dir = connector.Left
	case "+":
		dir = connector.Right
	default:
		return nil, fmt.Errorf("testfixture: connector %q has invalid direction %q", c.Name, c.Direction)
	}
	d := reg.Lookup(c.Name)
	return expr.NewConnector(d, dir, c.Multi, c.Cost, c.FarthestWord), nil
}

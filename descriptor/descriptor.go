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

// Package descriptor builds the read-only connector descriptors referenced
// by expression-tree CONNECTOR nodes (spec §3, §6) and gives them the
// derived upper/lower-case numeric forms the tracon set hashes on (spec
// §4.4). SPEC_FULL.md §12.2 adds the construction contract this package
// implements; the spec itself only says descriptors carry these fields.
package descriptor

import (
	"github.com/mitchellh/hashstructure"

	"github.com/dolthub/linkgrammar-core/intern"
)

// Descriptor is the immutable, read-only per-name record shared by every
// connector referencing the same spelling.
type Descriptor struct {
	// Name is the interned connector spelling, e.g. "Ss", "MVp".
	Name *string
	// UpperNum is a dense integer identifying the uppercase/digit prefix of
	// Name (the connector's broad category), assigned the first time that
	// prefix is seen by a given Registry.
	UpperNum int
	// LowerBitmap has bit (c - 'a') set for every lowercase letter c that
	// appears in Name's suffix (the connector's subtypes).
	LowerBitmap uint32
}

// Fingerprint returns an order-independent digest of the descriptor's
// derived fields, for diagnostics and logging; it is not used by the
// tracon set, which hashes descriptors with its own bespoke polynomial
// (spec §4.4).
func (d *Descriptor) Fingerprint() uint64 {
	h, err := hashstructure.Hash(struct {
		Name        string
		UpperNum    int
		LowerBitmap uint32
	}{*d.Name, d.UpperNum, d.LowerBitmap}, nil)
	if err != nil {
		// hashstructure only fails on unsupported field types; our struct
		// above is all primitives, so this is unreachable.
		panic(err)
	}
	return h
}

// Registry assigns descriptors for connector names, deduplicating both the
// interned name and the derived UpperNum so that two CONNECTOR nodes with
// the same spelling share one *Descriptor by pointer identity.
type Registry struct {
	interner *intern.Table
	byName   map[*string]*Descriptor
	upperIDs map[string]int
}

// NewRegistry constructs a Registry over the given interner. Multiple
// Registries may share one interner; a Registry's own caches are not
// synchronized, matching the dictionary-is-read-only-after-load model of
// spec §5 (build once, then read concurrently).
func NewRegistry(interner *intern.Table) *Registry {
	return &Registry{
		interner: interner,
		byName:   make(map[*string]*Descriptor),
		upperIDs: make(map[string]int),
	}
}

// Lookup returns the canonical Descriptor for name, interning it and
// deriving UpperNum/LowerBitmap on first sight.
func (r *Registry) Lookup(name string) *Descriptor {
	canon := r.interner.Intern(name)
	if d, ok := r.byName[canon]; ok {
		return d
	}

	upperPrefix, lowerSuffix := splitConnectorName(*canon)
	id, ok := r.upperIDs[upperPrefix]
	if !ok {
		id = len(r.upperIDs)
		r.upperIDs[upperPrefix] = id
	}

	d := &Descriptor{
		Name:        canon,
		UpperNum:    id,
		LowerBitmap: lowerBitmap(lowerSuffix),
	}
	r.byName[canon] = d
	return d
}

// splitConnectorName splits a connector spelling into its leading
// upper-case/digit run (the broad category, e.g. "MV" of "MVp") and its
// trailing lower-case letters (the subtype suffix, e.g. "p"). Link Grammar
// connector names are conventionally of this shape; a name with no
// trailing lowercase run yields an empty suffix.
func splitConnectorName(name string) (upper, lower string) {
	i := 0
	for i < len(name) {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			break
		}
		i++
	}
	return name[:i], name[i:]
}

func lowerBitmap(suffix string) uint32 {
	var bm uint32
	for i := 0; i < len(suffix); i++ {
		c := suffix[i]
		if c >= 'a' && c <= 'z' {
			bm |= 1 << uint(c-'a')
		}
	}
	return bm
}

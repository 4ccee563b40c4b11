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

// Package tracon implements the connector-chain interner of spec §4.4: a
// hash set over connector chains, keyed by structural equality along the
// "next" chain, with an optional shallow-discriminating mode.
package tracon

import (
	"github.com/dolthub/linkgrammar-core/connector"
)

// growthPrimes is the fixed prime sequence the table cycles through as it
// grows (spec §4.4).
var growthPrimes = []int{17, 37, 79, 163, 331, 673, 1361, 2729, 5471, 10949, 21911, 43853, 87719, 175447, 350899}

type slot struct {
	used bool
	hash uint64
	head *connector.Connector
}

// Set is a connector-chain interner. It never owns the chains it stores;
// it holds references to connector chains by identity of their head. The
// zero value is not usable; construct with New.
type Set struct {
	shallowDiscriminating bool

	slots   []slot
	count   int
	primeAt int

	// onHit and onMiss, when set, are invoked once per Lookup call that
	// finds or does not find an existing chain, e.g. to drive an
	// lgmetrics.Registry's TraconHits/TraconMisses counters without this
	// package importing the metrics package.
	onHit, onMiss func()
}

// New constructs an empty tracon set. shallowDiscriminating, when true,
// makes chains whose heads differ in the Shallow flag compare unequal even
// if otherwise structurally identical (spec §4.4).
func New(shallowDiscriminating bool) *Set {
	return &Set{shallowDiscriminating: shallowDiscriminating}
}

// WithHitMissHooks registers callbacks invoked on every Lookup's hit/miss
// outcome.
func (s *Set) WithHitMissHooks(onHit, onMiss func()) *Set {
	s.onHit, s.onMiss = onHit, onMiss
	return s
}

// Lookup searches for a chain structurally equal to head. If found, it
// returns the existing canonical chain and true. If not found, it returns
// (nil, false) and leaves the table unchanged: it does not reserve or hand
// back a slot. The caller then calls Insert(head), which probes for a free
// slot on its own, to make head the canonical chain.
func (s *Set) Lookup(head *connector.Connector) (*connector.Connector, bool) {
	if len(s.slots) == 0 {
		s.miss()
		return nil, false
	}
	h := hashChain(head, s.shallowDiscriminating)
	idx, stride := s.probeStart(h)
	for i := 0; i < len(s.slots); i++ {
		sl := &s.slots[idx]
		if !sl.used {
			s.miss()
			return nil, false
		}
		if sl.hash == h && connector.ChainEqual(sl.head, head, s.shallowDiscriminating) {
			s.hit()
			return sl.head, true
		}
		idx = (idx + stride) % len(s.slots)
	}
	s.miss()
	return nil, false
}

func (s *Set) hit() {
	if s.onHit != nil {
		s.onHit()
	}
}

func (s *Set) miss() {
	if s.onMiss != nil {
		s.onMiss()
	}
}

// Insert stores head as the canonical chain for its structural-equality
// class, growing the table first if the load factor would exceed 37.5%
// (spec §4.4: "grow when 8*count > 3*size"). Insert does not check whether
// an equal chain is already present; callers follow the Lookup-then-Insert
// protocol so Insert is only called on a true miss.
func (s *Set) Insert(head *connector.Connector) {
	if len(s.slots) == 0 || 8*(s.count+1) > 3*len(s.slots) {
		s.grow()
	}
	h := hashChain(head, s.shallowDiscriminating)
	s.insertHash(head, h)
	s.count++
}

// Reset clears slot contents to empty but retains the allocated table
// (spec §3: "an explicit reset clears slot contents without freeing
// storage").
func (s *Set) Reset() {
	for i := range s.slots {
		s.slots[i] = slot{}
	}
	s.count = 0
}

// Len reports the number of distinct chains currently interned.
func (s *Set) Len() int {
	return s.count
}

func (s *Set) probeStart(h uint64) (idx int, stride int) {
	n := uint64(len(s.slots))
	idx = int(h % n)
	stride = int((h/7)%n)*17 + 1 // double-hashing stride (spec §4.4)
	// stride must be forced nonzero modulo the table size, not merely
	// nonzero in value: for some table sizes n | stride, which would make
	// every probe revisit idx and either spin forever on a full table
	// (insertHash) or falsely report a miss past a real entry (Lookup).
	stride %= int(n)
	if stride <= 0 {
		stride = 1
	}
	return idx, stride
}

func (s *Set) insertHash(head *connector.Connector, h uint64) {
	idx, stride := s.probeStart(h)
	for {
		sl := &s.slots[idx]
		if !sl.used {
			sl.used = true
			sl.hash = h
			sl.head = head
			return
		}
		idx = (idx + stride) % len(s.slots)
	}
}

func (s *Set) grow() {
	old := s.slots
	if s.primeAt >= len(growthPrimes) {
		size := len(old) * 2
		if size == 0 {
			size = growthPrimes[0]
		}
		s.slots = make([]slot, size)
	} else {
		s.slots = make([]slot, growthPrimes[s.primeAt])
		s.primeAt++
	}
	for _, sl := range old {
		if sl.used {
			s.insertHash(sl.head, sl.hash)
		}
	}
}

// hashChain computes the bespoke polynomial hash of spec §4.4: it mixes
// each connector's descriptor upper-case number, descriptor lower-case
// letters, direction and multi flag, using a primary multiplier of 7 (the
// stride hash with multiplier 17 is derived from this same value in
// probeStart, rather than recomputed, to avoid walking the chain twice).
// Direction is mixed in because one Set is shared across a word's left and
// right chains (SPEC_FULL.md §12.3): without it, a left-going and a
// right-going chain built from the same descriptors would hash and compare
// equal (connector.SameAs) and wrongly canonicalize to the same chain.
func hashChain(head *connector.Connector, shallowDiscriminating bool) uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis, arbitrary but fixed seed
	if shallowDiscriminating && head != nil {
		if head.Shallow {
			h = h*7 + 1
		} else {
			h = h * 7
		}
	}
	for c := head; c != nil; c = c.Next {
		h = h*7 + uint64(c.Descriptor.UpperNum)
		h = h*7 + uint64(c.Descriptor.LowerBitmap)
		h = h*7 + uint64(c.Direction)
		if c.Multi {
			h = h*7 + 1
		}
	}
	return h
}

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

// Package pool implements the bump/slab allocator used for clause-expansion
// scratch data and for the long-lived per-sentence connector and disjunct
// arrays. Allocation never frees a single element; an entire pool is reset
// (reclaiming every element at once) or destroyed.
package pool

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/dolthub/linkgrammar-core/lgerrors"
)

// DefaultSlabSize is the element count of each slab allocated by a Pool
// that was not given an explicit size.
const DefaultSlabSize = 512

// Pool is a fixed-element-size bump allocator for T. Zero value is not
// usable; construct with New.
type Pool[T any] struct {
	slabSize int
	zero     bool
	maxSlabs int // 0 means unlimited

	slabs   [][]T
	slabIdx int // index into slabs of the slab currently being filled
	next    int // next free offset within slabs[slabIdx]

	grows int // lifetime count of slab allocations, for Stats

	// onGrow, when set, is invoked once per successful slab allocation.
	// It exists so a caller can wire a lgmetrics.Registry counter without
	// this package importing the metrics package.
	onGrow func()
}

// WithGrowthHook registers a callback invoked once per successful slab
// allocation, e.g. to increment an lgmetrics.Registry.SlabAllocations
// counter.
func (p *Pool[T]) WithGrowthHook(fn func()) *Pool[T] {
	p.onGrow = fn
	return p
}

// Stats reports allocator-level counters, used by callers that want to
// surface pool pressure (see lgmetrics).
type Stats struct {
	Slabs     int
	SlabSize  int
	Allocated int // elements allocated since the last Reset
}

// New constructs a Pool with the given per-slab element count. zero, when
// true, clears an element's memory before handing it out, which matters
// only for elements drawn from a slab region that a prior Reset reclaimed
// (freshly grown slabs are already zero-valued by Go's allocator).
func New[T any](slabSize int, zero bool) *Pool[T] {
	if slabSize <= 0 {
		slabSize = DefaultSlabSize
	}
	return &Pool[T]{slabSize: slabSize, zero: zero}
}

// WithMaxSlabs caps the number of slabs the pool may allocate. Once the cap
// is reached, Alloc returns lgerrors.ErrOutOfMemory instead of growing
// further. A cap of 0 (the default) means unlimited.
func (p *Pool[T]) WithMaxSlabs(n int) *Pool[T] {
	p.maxSlabs = n
	return p
}

// Alloc returns a pointer to a freshly allocated element. The pointer
// remains valid until the next Reset or Destroy. Callers must not retain
// an Alloc'd pointer across a Reset and must never free it individually.
func (p *Pool[T]) Alloc() (*T, error) {
	if p.slabIdx >= len(p.slabs) {
		if err := p.growSlab(); err != nil {
			return nil, err
		}
	} else if p.next >= p.slabSize {
		p.slabIdx++
		p.next = 0
		if p.slabIdx >= len(p.slabs) {
			if err := p.growSlab(); err != nil {
				return nil, err
			}
		}
	}

	e := &p.slabs[p.slabIdx][p.next]
	if p.zero {
		var z T
		*e = z
	}
	p.next++
	return e, nil
}

func (p *Pool[T]) growSlab() error {
	if p.maxSlabs > 0 && len(p.slabs) >= p.maxSlabs {
		return errors.Wrap(
			lgerrors.ErrOutOfMemory.New(fmt.Sprintf("pool exceeded %d slabs of %d elements", p.maxSlabs, p.slabSize)),
			"pool.Pool.growSlab",
		)
	}
	p.slabs = append(p.slabs, make([]T, p.slabSize))
	p.grows++
	if p.onGrow != nil {
		p.onGrow()
	}
	return nil
}

// Reset reclaims every element allocated so far without freeing slab
// storage; subsequent Allocs reuse that storage from the beginning. This is
// the word-boundary reset for the clause/temp scratch pools (spec §3's
// "cleared (pool-reset) at the end of each word's expansion").
func (p *Pool[T]) Reset() {
	p.slabIdx = 0
	p.next = 0
}

// Destroy releases all slab storage. Used at sentence teardown for the
// connector/disjunct pools.
func (p *Pool[T]) Destroy() {
	p.slabs = nil
	p.slabIdx = 0
	p.next = 0
}

// ForEach iterates every live (allocated-since-last-Reset) element in
// allocation order.
func (p *Pool[T]) ForEach(fn func(*T)) {
	for i := 0; i < p.slabIdx && i < len(p.slabs); i++ {
		slab := p.slabs[i]
		for j := range slab {
			fn(&slab[j])
		}
	}
	if p.slabIdx < len(p.slabs) {
		slab := p.slabs[p.slabIdx]
		for j := 0; j < p.next; j++ {
			fn(&slab[j])
		}
	}
}

// Stats reports current allocator pressure.
func (p *Pool[T]) Stats() Stats {
	allocated := p.slabIdx*p.slabSize + p.next
	return Stats{Slabs: len(p.slabs), SlabSize: p.slabSize, Allocated: allocated}
}

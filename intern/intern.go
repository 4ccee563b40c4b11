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

// Package intern implements the canonical string set backing connector
// descriptor names and word spellings (spec §2, §12.1 of SPEC_FULL.md).
// Two calls to Intern with equal byte content return the identical *string,
// so downstream code may compare by pointer identity.
package intern

import (
	"strings"
	"sync"

	"github.com/OneOfOne/xxhash"
)

// growthPrimes is the fixed size sequence the table's bucket count cycles
// through as it grows, mirroring the tracon set's prime-cycling policy
// (spec §4.4) so the two hash-table implementations in this module share
// one mental model.
var growthPrimes = []int{17, 37, 79, 163, 331, 673, 1361, 2729, 5471, 10949, 21911, 43853, 87719, 175447, 350899}

type entry struct {
	hash uint64
	s    *string
}

// Table is a thread-safe open-addressing string interner. The zero value
// is ready to use.
type Table struct {
	mu      sync.Mutex
	buckets []entry
	count   int
	primeAt int
}

// New constructs an empty interner.
func New() *Table {
	return &Table{}
}

// Intern returns the canonical *string for s, interning a copy of s the
// first time it is seen. The dictionary and string interner are shared
// read-only across sentences once the dictionary is loaded (spec §5); this
// method serializes concurrent mutators so a live-reload path remains
// correct.
func (t *Table) Intern(s string) *string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.buckets) == 0 {
		t.grow()
	}

	h := xxhash.ChecksumString64(s)
	for {
		idx := int(h % uint64(len(t.buckets)))
		for {
			b := &t.buckets[idx]
			if b.s == nil {
				canon := strings.Clone(s)
				b.hash = h
				b.s = &canon
				t.count++
				if 2*t.count > len(t.buckets) {
					t.grow()
				}
				return b.s
			}
			if b.hash == h && *b.s == s {
				return b.s
			}
			idx++
			if idx == len(t.buckets) {
				idx = 0
			}
		}
	}
}

// Len reports the number of distinct strings interned so far.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// grow must be called with mu held. It rehashes every live entry into a
// table sized to the next entry of growthPrimes.
func (t *Table) grow() {
	old := t.buckets
	if t.primeAt >= len(growthPrimes) {
		// Exhausted the fixed sequence: double the last size, matching
		// the tracon set's fallback once primes run out.
		size := len(old) * 2
		if size == 0 {
			size = growthPrimes[0]
		}
		t.buckets = make([]entry, size)
	} else {
		t.buckets = make([]entry, growthPrimes[t.primeAt])
		t.primeAt++
	}

	for _, b := range old {
		if b.s == nil {
			continue
		}
		idx := int(b.hash % uint64(len(t.buckets)))
		for t.buckets[idx].s != nil {
			idx++
			if idx == len(t.buckets) {
				idx = 0
			}
		}
		t.buckets[idx] = b
	}
}

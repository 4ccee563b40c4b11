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

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct {
	N int
}

func TestAllocGrowsAcrossSlabs(t *testing.T) {
	p := New[widget](4, false)
	var ptrs []*widget
	for i := 0; i < 10; i++ {
		e, err := p.Alloc()
		require.NoError(t, err)
		e.N = i
		ptrs = append(ptrs, e)
	}
	require.Equal(t, Stats{Slabs: 3, SlabSize: 4, Allocated: 10}, p.Stats())
	for i, ptr := range ptrs {
		require.Equal(t, i, ptr.N)
	}
}

func TestWithMaxSlabsReturnsOutOfMemory(t *testing.T) {
	p := New[widget](2, false).WithMaxSlabs(1)
	_, err := p.Alloc()
	require.NoError(t, err)
	_, err = p.Alloc()
	require.NoError(t, err)
	_, err = p.Alloc() // needs a 2nd slab, capped at 1
	require.Error(t, err)
}

func TestResetReusesStorageWithoutFreeing(t *testing.T) {
	p := New[widget](4, true)
	e1, err := p.Alloc()
	require.NoError(t, err)
	e1.N = 42
	p.Reset()
	require.Equal(t, Stats{Slabs: 1, SlabSize: 4, Allocated: 0}, p.Stats())

	e2, err := p.Alloc()
	require.NoError(t, err)
	require.Equal(t, 0, e2.N, "zero=true must clear reused storage")
}

func TestDestroyReleasesSlabs(t *testing.T) {
	p := New[widget](4, false)
	_, err := p.Alloc()
	require.NoError(t, err)
	p.Destroy()
	require.Equal(t, Stats{Slabs: 0, SlabSize: 4, Allocated: 0}, p.Stats())
}

func TestForEachVisitsLiveElementsInAllocationOrder(t *testing.T) {
	p := New[widget](3, false)
	for i := 0; i < 7; i++ {
		e, err := p.Alloc()
		require.NoError(t, err)
		e.N = i
	}
	var seen []int
	p.ForEach(func(w *widget) { seen = append(seen, w.N) })
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, seen)
}

func TestWithGrowthHookFiresOncePerSlab(t *testing.T) {
	grows := 0
	p := New[widget](2, false).WithMaxSlabs(0)
	p.WithGrowthHook(func() { grows++ })
	for i := 0; i < 5; i++ {
		_, err := p.Alloc()
		require.NoError(t, err)
	}
	require.Equal(t, 3, grows)
}

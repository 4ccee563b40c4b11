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

package sentence

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// ParseOptions is the external collaborator of spec §4.7: disjunct_cost
// (cutoff), max_disjuncts (per-word cap; 0 disables), use_sat_solver
// (alternate allocator path, out of scope per spec §9's open question —
// carried as a field so a caller's config round-trips, but never consulted
// by this module), and a verbosity level.
type ParseOptions struct {
	DisjunctCost float64
	MaxDisjuncts int
	UseSATSolver bool
	Verbosity    int
	RandState    int64

	// SlabSize overrides the pool allocator's default per-slab element
	// count; 0 uses pool.DefaultSlabSize.
	SlabSize int
}

// NewParseOptionsFromMap builds ParseOptions from loosely-typed
// configuration, using spf13/cast for numeric/bool coercion the way a
// thin config-ingest layer would (SPEC_FULL.md §10.3). Unrecognized keys
// are ignored; recognized keys with a value that cannot be coerced return
// an error naming the offending key.
func NewParseOptionsFromMap(m map[string]interface{}) (*ParseOptions, error) {
	opts := &ParseOptions{}

	if v, ok := m["disjunct_cost"]; ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, errors.Wrap(err, "sentence.NewParseOptionsFromMap: disjunct_cost")
		}
		opts.DisjunctCost = f
	}
	if v, ok := m["max_disjuncts"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return nil, errors.Wrap(err, "sentence.NewParseOptionsFromMap: max_disjuncts")
		}
		opts.MaxDisjuncts = n
	}
	if v, ok := m["use_sat_solver"]; ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, errors.Wrap(err, "sentence.NewParseOptionsFromMap: use_sat_solver")
		}
		opts.UseSATSolver = b
	}
	if v, ok := m["verbosity"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return nil, errors.Wrap(err, "sentence.NewParseOptionsFromMap: verbosity")
		}
		opts.Verbosity = n
	}
	if v, ok := m["rand_state"]; ok {
		n, err := cast.ToInt64E(v)
		if err != nil {
			return nil, errors.Wrap(err, "sentence.NewParseOptionsFromMap: rand_state")
		}
		opts.RandState = n
	}
	if v, ok := m["slab_size"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return nil, errors.Wrap(err, "sentence.NewParseOptionsFromMap: slab_size")
		}
		opts.SlabSize = n
	}

	return opts, nil
}

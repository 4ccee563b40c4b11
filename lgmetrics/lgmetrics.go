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

// Package lgmetrics exposes Prometheus counters for the pipeline's
// memory-sensitive and near-linear-time non-functional requirements
// (spec §1, §4.5; SPEC_FULL.md §11).
package lgmetrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the counters one sentence driver reports to. Construct
// with New and register with a prometheus.Registerer of the embedder's
// choosing; the zero value is not usable.
type Registry struct {
	SlabAllocations   prometheus.Counter
	TraconHits        prometheus.Counter
	TraconMisses      prometheus.Counter
	PrunedByCutoff    prometheus.Counter
	PrunedByDownsample prometheus.Counter
	PrunedByPreparator prometheus.Counter
}

// New constructs a Registry whose counters are namespaced under
// "linkgrammar_core".
func New() *Registry {
	ns := "linkgrammar_core"
	return &Registry{
		SlabAllocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "pool_slab_allocations_total",
			Help:      "Number of slab allocations performed by pool.Pool instances.",
		}),
		TraconHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "tracon_hits_total",
			Help:      "Number of tracon set lookups that found an existing canonical chain.",
		}),
		TraconMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "tracon_misses_total",
			Help:      "Number of tracon set lookups that inserted a new canonical chain.",
		}),
		PrunedByCutoff: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "disjuncts_pruned_cutoff_total",
			Help:      "Number of clauses discarded by the disjunct builder's cost cutoff.",
		}),
		PrunedByDownsample: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "disjuncts_pruned_downsample_total",
			Help:      "Number of disjuncts discarded by the per-word down-sampler.",
		}),
		PrunedByPreparator: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "disjuncts_pruned_preparator_total",
			Help:      "Number of disjuncts dropped by the preparator for falling off the sentence edge.",
		}),
	}
}

// MustRegister registers every counter in r with reg, panicking on
// collision, matching the common Prometheus client-side idiom for
// process-lifetime metric sets.
func (r *Registry) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		r.SlabAllocations,
		r.TraconHits,
		r.TraconMisses,
		r.PrunedByCutoff,
		r.PrunedByDownsample,
		r.PrunedByPreparator,
	)
}

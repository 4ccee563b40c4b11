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

// Package sentence implements the per-sentence driver (SPEC_FULL.md
// §12.3): it owns the pools, the tracon set and the rand_state for one
// sentence, and runs the clause/disjunct/dedup/prepare pipeline word by
// word (spec §4.7, §5), collecting per-word errors without aborting the
// sentence and stopping early, with a partial result, if the sentence's
// budget is exceeded.
package sentence

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/linkgrammar-core/budget"
	"github.com/dolthub/linkgrammar-core/clause"
	"github.com/dolthub/linkgrammar-core/dedup"
	"github.com/dolthub/linkgrammar-core/disjunct"
	"github.com/dolthub/linkgrammar-core/expr"
	"github.com/dolthub/linkgrammar-core/lgerrors"
	"github.com/dolthub/linkgrammar-core/lgmetrics"
	"github.com/dolthub/linkgrammar-core/prepare"
	"github.com/dolthub/linkgrammar-core/tracon"
)

// Dictionary is the external collaborator of spec §4.7: an ordered list of
// (expression, word_string) pairs per sentence word, immutable during
// parsing.
type Dictionary interface {
	// Expressions returns the candidate (expression, word_string) pairs for
	// word index w.
	Expressions(w int) []Expression
}

// Expression is one dictionary entry for a word.
type Expression struct {
	Tree       expr.Node
	WordString string
}

// Driver is the per-sentence orchestration object. Construct with New.
type Driver struct {
	Length int

	clausePools   *clause.Pools
	disjunctPools *disjunct.Pools
	tracon        *tracon.Set

	opts    ParseOptions
	budget  *budget.Tracker
	metrics *lgmetrics.Registry
	log     *logrus.Logger

	// Words holds the per-word disjunct list, writable by the core
	// (spec §4.7).
	Words []*disjunct.Disjunct

	// Errors collects per-word pipeline errors without aborting the
	// sentence (spec §7's propagation rule).
	Errors []lgerrors.WordError

	// OverBudget is set once the budget tracker reports exhaustion; the
	// driver stops processing further words but returns whatever partial
	// per-word results it already built (SPEC_FULL.md §12.4).
	OverBudget bool
}

// New constructs a Driver for a sentence of the given length.
func New(length int, opts ParseOptions, tr *budget.Tracker, metrics *lgmetrics.Registry, log *logrus.Logger) *Driver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if tr == nil {
		tr = budget.Unlimited()
	}
	ts := tracon.New(false)
	if metrics != nil {
		ts = ts.WithHitMissHooks(metrics.TraconHits.Inc, metrics.TraconMisses.Inc)
	}
	d := &Driver{
		Length:        length,
		clausePools:   clause.NewPools(poolSlabSize(opts)),
		disjunctPools: disjunct.NewPools(poolSlabSize(opts)),
		tracon:        ts,
		opts:          opts,
		budget:        tr,
		metrics:       metrics,
		log:           log,
		Words:         make([]*disjunct.Disjunct, length),
	}
	if metrics != nil {
		d.clausePools.Temp.WithGrowthHook(metrics.SlabAllocations.Inc)
		d.clausePools.Clauses.WithGrowthHook(metrics.SlabAllocations.Inc)
		d.disjunctPools.Connectors.WithGrowthHook(metrics.SlabAllocations.Inc)
		d.disjunctPools.Disjuncts.WithGrowthHook(metrics.SlabAllocations.Inc)
	}
	return d
}

func poolSlabSize(opts ParseOptions) int {
	if opts.SlabSize > 0 {
		return opts.SlabSize
	}
	return 0 // pool.DefaultSlabSize
}

// Destroy releases the sentence's long-lived pools. Call once parsing is
// complete.
func (d *Driver) Destroy() {
	d.clausePools.Destroy()
	d.disjunctPools.Destroy()
}

// Run drives the full pipeline over every word of dict, in order,
// stopping early (with whatever partial Words it already built) if the
// budget is exceeded between words (spec §5, SPEC_FULL.md §12.4).
func (d *Driver) Run(ctx context.Context, dict Dictionary) {
	for w := 0; w < d.Length; w++ {
		if !d.budget.Check() {
			d.OverBudget = true
			return
		}
		d.runWord(ctx, dict, w)
	}
}

func (d *Driver) runWord(ctx context.Context, dict Dictionary, w int) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "sentence.runWord")
	defer span.Finish()

	entries := dict.Expressions(w)

	var head, tail *disjunct.Disjunct
	pos := 0
	clauseCount, disjunctCount := 0, 0

	for _, entry := range entries {
		cl, err := clause.Expand(ctx, entry.Tree, d.clausePools, &pos)
		if err != nil {
			d.Errors = append(d.Errors, lgerrors.WordError{Word: w, Err: err})
			continue
		}
		for c := cl; c != nil; c = c.Next {
			clauseCount++
		}

		built, err := disjunct.Build(ctx, cl, entry.WordString, d.disjunctPools, disjunct.BuildOptions{
			Cutoff:            d.opts.DisjunctCost,
			MaxDisjuncts:      d.opts.MaxDisjuncts,
			RandState:         d.opts.RandState,
			OnCutoffPrune:     d.incOr(func() { d.metrics.PrunedByCutoff.Inc() }),
			OnDownsamplePrune: d.incOr(func() { d.metrics.PrunedByDownsample.Inc() }),
		})
		if err != nil {
			d.Errors = append(d.Errors, lgerrors.WordError{Word: w, Err: err})
			continue
		}

		if built == nil {
			continue
		}
		last := built
		for c := built; c != nil; c = c.Next {
			disjunctCount++
			last = c
		}
		if head == nil {
			head = built
		} else {
			tail.Next = built
		}
		tail = last
	}

	// The tracon set canonicalizes chains by structural equality; it must
	// be scoped to this word only. Left unreset, a later word's dedup pass
	// would canonicalize its chains onto an earlier word's connectors and
	// prepare.Word would then stamp that shared object's NearestWord and
	// OriginatingGword for the later word, clobbering the earlier word's
	// values (spec §4.4's Reset exists precisely for this boundary).
	d.tracon.Reset()
	head = dedup.Eliminate(head, d.tracon, dedup.Standard)

	var pruned int
	head = prepare.Word(head, w, d.Length, func() {
		pruned++
		if d.metrics != nil {
			d.metrics.PrunedByPreparator.Inc()
		}
	})

	d.Words[w] = head
	d.clausePools.Reset()

	if d.opts.Verbosity >= 2 {
		d.log.WithFields(logrus.Fields{
			"word":     w,
			"clauses":  clauseCount,
			"disjuncts": disjunctCount,
			"pruned":   pruned,
		}).Debug("word prepared")
	}
}

// incOr returns fn if metrics are enabled, nil otherwise, so BuildOptions'
// hook fields stay nil (cheap no-op check) rather than wrapping a nil
// Counter.
func (d *Driver) incOr(fn func()) func() {
	if d.metrics == nil {
		return nil
	}
	return fn
}

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

// Package lgerrors defines the error taxonomy of the expansion/preparation
// pipeline. Each kind is created once at init time and instantiated at the
// call site, so callers can classify a returned error with Kind.Is without
// string matching.
package lgerrors

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrMalformedExpression is returned when an expression tree contains an
	// unknown node type or is otherwise structurally invalid. Fatal for the
	// affected word only; other words in the sentence may proceed.
	ErrMalformedExpression = errors.NewKind("malformed expression: %s")

	// ErrCorruptDictionary is returned when a dictionary-supplied invariant
	// is violated, such as an out-of-range category index on a
	// category-encoded word string. Fatal for the sentence.
	ErrCorruptDictionary = errors.NewKind("corrupt dictionary: %s")

	// ErrOutOfMemory is returned when a pool cannot grow to satisfy an
	// allocation. Fatal for the sentence.
	ErrOutOfMemory = errors.NewKind("out of memory: %s")

	// ErrOverBudget is returned when a per-sentence deadline or poll budget
	// is exceeded. Not fatal: the caller receives whatever partial result
	// had already been built, and the sentence is marked over-budget.
	ErrOverBudget = errors.NewKind("over budget: %s")
)

// WordError pairs a per-word pipeline error with the word index it
// occurred on, matching the "record on the word and continue" propagation
// rule: clause- and disjunct-building errors do not abort the sentence.
type WordError struct {
	Word int
	Err  error
}

func (w *WordError) Error() string {
	return w.Err.Error()
}

func (w *WordError) Unwrap() error {
	return w.Err
}

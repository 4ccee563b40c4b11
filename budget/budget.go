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

// Package budget implements the coarse, polled cancellation abstraction of
// SPEC_FULL.md §12.4: a deadline and poll-count limit. The sentence driver
// checks it once before each word; it is not checked between the stages
// within a word, nor inside a single stage's inner loop.
package budget

import "time"

// Tracker tracks a per-sentence resource budget. The zero value is an
// unlimited tracker (Check always returns true), which is the default when
// a caller does not configure one.
type Tracker struct {
	deadline time.Time
	hasDeadline bool

	maxPolls int
	polls    int
}

// New constructs a Tracker with an absolute deadline. A zero deadline
// means no time limit.
func New(deadline time.Time, maxPolls int) *Tracker {
	return &Tracker{deadline: deadline, hasDeadline: !deadline.IsZero(), maxPolls: maxPolls}
}

// Unlimited returns a Tracker with no deadline and no poll limit.
func Unlimited() *Tracker {
	return &Tracker{}
}

// Check polls the budget once. It returns true if the budget is still
// available, false if exceeded. Once it returns false, it continues to
// return false on every subsequent call (the sentence stays over-budget).
func (t *Tracker) Check() bool {
	if t == nil {
		return true
	}
	t.polls++
	if t.maxPolls > 0 && t.polls > t.maxPolls {
		return false
	}
	if t.hasDeadline && !time.Now().Before(t.deadline) {
		return false
	}
	return true
}

// Polls reports how many times Check has been called, for diagnostics.
func (t *Tracker) Polls() int {
	if t == nil {
		return 0
	}
	return t.polls
}

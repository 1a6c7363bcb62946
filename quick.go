// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
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

package sortbench

// Quick is a Lomuto-partition quick sort with last-element pivot.
//
// Already ordered input degrades to n-deep partitioning, so subranges are
// kept on an explicit work stack instead of the call stack.
type Quick struct {
	counter
	stack []span
}

type span struct{ lo, hi int }

// NewQuick returns a quick sort with a zeroed counter.
func NewQuick() *Quick { return &Quick{} }

func (*Quick) Name() string { return QuickName }

func (q *Quick) SortTimed(a []int) []int {
	q.run(a, false)
	return a
}

func (q *Quick) SortCounted(a []int) []int {
	q.run(a, true)
	return a
}

func (q *Quick) run(a []int, counted bool) {
	if len(a) < 2 {
		return
	}
	q.stack = append(q.stack[:0], span{0, len(a) - 1})
	for len(q.stack) > 0 {
		s := q.stack[len(q.stack)-1]
		q.stack = q.stack[:len(q.stack)-1]
		var p int
		if counted {
			p = q.partitionCounted(a, s.lo, s.hi)
		} else {
			p = partition(a, s.lo, s.hi)
		}
		if p+1 < s.hi {
			q.stack = append(q.stack, span{p + 1, s.hi})
		}
		if s.lo < p-1 {
			q.stack = append(q.stack, span{s.lo, p - 1})
		}
	}
}

// partition places a[hi] at its final index and returns that index.
func partition(a []int, lo, hi int) int {
	pivot := a[hi]
	i := lo - 1
	for j := lo; j < hi; j++ {
		if a[j] <= pivot {
			i++
			a[i], a[j] = a[j], a[i]
		}
	}
	a[i+1], a[hi] = a[hi], a[i+1]
	return i + 1
}

// partitionCounted is partition with one count per element tested against
// the pivot, i.e. hi-lo per call regardless of outcome.
func (q *Quick) partitionCounted(a []int, lo, hi int) int {
	pivot := a[hi]
	i := lo - 1
	for j := lo; j < hi; j++ {
		q.comparisons++
		if a[j] <= pivot {
			i++
			a[i], a[j] = a[j], a[i]
		}
	}
	a[i+1], a[hi] = a[hi], a[i+1]
	return i + 1
}

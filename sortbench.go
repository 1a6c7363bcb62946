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

// Package sortbench provides the three instrumented sorting algorithms used by
// the benchmark: insertion sort, quick sort and merge sort. Every algorithm
// exposes an uninstrumented sort for wall-clock timing and a functionally
// identical sort that counts element comparisons.
package sortbench

// Stable algorithm names. They key the results store and label reports/charts.
const (
	InsertionName = "Insertion Sort"
	QuickName     = "Quick Sort"
	MergeName     = "Merge Sort"
)

// Algorithm is the capability set shared by all benchmarked sorts.
//
// Both sort methods sort seq in place and return it; callers that need the
// original order must pass a copy. The comparison counter is owned by the
// instance and is only touched by SortCounted and ResetComparisons.
type Algorithm interface {
	Name() string
	// SortTimed sorts without instrumentation. Used for timing.
	SortTimed(seq []int) []int
	// SortCounted sorts and adds one to the counter per element comparison.
	SortCounted(seq []int) []int
	// Comparisons returns the counter accumulated since the last reset.
	Comparisons() int64
	// ResetComparisons zeroes the counter. Call before each counted trial.
	ResetComparisons()
}

// counter is embedded by every algorithm to own its comparison tally.
type counter struct {
	comparisons int64
}

func (c *counter) Comparisons() int64 { return c.comparisons }
func (c *counter) ResetComparisons()  { c.comparisons = 0 }

// All returns fresh instances of the three algorithms in report order.
func All() []Algorithm {
	return []Algorithm{NewInsertion(), NewQuick(), NewMerge()}
}

// Names returns the algorithm names in report order.
func Names() []string {
	return []string{InsertionName, QuickName, MergeName}
}

// IsSorted reports whether every adjacent pair of seq is non-decreasing.
// Empty and single-element sequences are sorted.
func IsSorted(seq []int) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i-1] > seq[i] {
			return false
		}
	}
	return true
}

package benchmarks

import (
	"slices"

	"sortbench"
)

// StdSort is the standard library's pattern-defeating quicksort wrapped as a
// sortbench.Algorithm. It is the reference the three benchmarked sorts are
// checked and timed against.
type StdSort struct{ comparisons int64 }

func NewStdSort() *StdSort { return &StdSort{} }

func (s *StdSort) Name() string { return "Std Sort" }

func (s *StdSort) SortTimed(seq []int) []int {
	slices.Sort(seq)
	return seq
}

func (s *StdSort) SortCounted(seq []int) []int {
	slices.SortFunc(seq, func(a, b int) int {
		s.comparisons++
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})
	return seq
}

func (s *StdSort) Comparisons() int64 { return s.comparisons }
func (s *StdSort) ResetComparisons()  { s.comparisons = 0 }

var _ sortbench.Algorithm = (*StdSort)(nil)

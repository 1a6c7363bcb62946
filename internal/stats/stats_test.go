package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func repeat(v float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = v
	}
	return xs
}

func TestMeanAndStdDev(t *testing.T) {
	testCases := []struct {
		name     string
		xs       []float64
		mean, sd float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{3}, 3, 0},
		{"constant", repeat(5, 10), 5, 0},
		{"pair", []float64{1, 3}, 2, math.Sqrt2},
		{"textbook", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, math.Sqrt(32.0 / 7)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.mean, Mean(tc.xs), 1e-12)
			assert.InDelta(t, tc.sd, StdDev(tc.xs), 1e-12)
		})
	}
}

func TestConfidenceInterval_Degenerate(t *testing.T) {
	lo, hi := ConfidenceInterval(nil)
	assert.Zero(t, lo)
	assert.Zero(t, hi)

	lo, hi = ConfidenceInterval([]float64{1})
	assert.Zero(t, lo)
	assert.Zero(t, hi)

	lo, hi = ConfidenceInterval(repeat(5, 10))
	assert.Equal(t, 5.0, lo)
	assert.Equal(t, 5.0, hi)
}

func TestConfidenceInterval_FixedConstant(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	lo, hi := ConfidenceInterval(xs)
	margin := TCritical95 * StdDev(xs) / math.Sqrt(10)
	assert.InDelta(t, 5.5-margin, lo, 1e-12)
	assert.InDelta(t, 5.5+margin, hi, 1e-12)
	assert.InDelta(t, 5.5, (lo+hi)/2, 1e-12, "interval is symmetric about the mean")
}

func TestTCritical_MatchesConstantForTenTrials(t *testing.T) {
	assert.InDelta(t, TCritical95, TCritical(10, 0.95), 5e-4)
	assert.InDelta(t, 12.706, TCritical(2, 0.95), 1e-3)
	assert.Greater(t, TCritical(5, 0.95), TCritical(30, 0.95))
}

func TestInterval_ChoosesCriticalValue(t *testing.T) {
	ten := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	lo, hi := Interval(ten)
	flo, fhi := ConfidenceInterval(ten)
	assert.Equal(t, flo, lo)
	assert.Equal(t, fhi, hi)

	five := []float64{1, 2, 3, 4, 5}
	lo, hi = Interval(five)
	slo, shi := StudentInterval(five, 0.95)
	assert.Equal(t, slo, lo)
	assert.Equal(t, shi, hi)
	// t(4) = 2.776 is wider than the fixed constant.
	wlo, _ := ConfidenceInterval(five)
	assert.Less(t, lo, wlo)

	lo, hi = Interval([]float64{7})
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestSummarize(t *testing.T) {
	s := Summarize(Floats([]int64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}))
	assert.Equal(t, Summary{N: 10, Mean: 10, StdDev: 0, Lower: 10, Upper: 10}, s)

	s = Summarize(nil)
	assert.Equal(t, Summary{}, s)
}

func TestFloats(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 4950}, Floats([]int64{0, 1, 4950}))
	assert.Empty(t, Floats(nil))
}

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

// Package stats aggregates per-cell trial samples into mean, sample standard
// deviation and a 95% confidence interval for the mean.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TCritical95 is the two-sided 95% Student's t critical value for 9 degrees of
// freedom, i.e. for the default 10 trials per cell.
const TCritical95 = 2.262

// fixedTrials is the sample size TCritical95 is valid for.
const fixedTrials = 10

// Mean returns the arithmetic mean of xs, or 0 for an empty sample.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// StdDev returns the sample standard deviation (n-1 denominator), or 0 when
// fewer than two samples are present.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// ConfidenceInterval returns mean ± TCritical95·s/√n. Fewer than two samples
// yield (0, 0). The constant is used regardless of n.
func ConfidenceInterval(xs []float64) (lo, hi float64) {
	if len(xs) < 2 {
		return 0, 0
	}
	return interval(xs, TCritical95)
}

// StudentInterval is ConfidenceInterval with the critical value taken from the
// Student's t distribution with n-1 degrees of freedom at the given two-sided
// confidence level (e.g. 0.95).
func StudentInterval(xs []float64, confidence float64) (lo, hi float64) {
	if len(xs) < 2 {
		return 0, 0
	}
	return interval(xs, TCritical(len(xs), confidence))
}

// TCritical returns the two-sided critical value for n samples.
func TCritical(n int, confidence float64) float64 {
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	return t.Quantile(1 - (1-confidence)/2)
}

// Interval keeps the published constant for 10 samples and switches to the
// exact quantile for any other sample size.
func Interval(xs []float64) (lo, hi float64) {
	if len(xs) == fixedTrials {
		return ConfidenceInterval(xs)
	}
	return StudentInterval(xs, 0.95)
}

func interval(xs []float64, t float64) (lo, hi float64) {
	m := Mean(xs)
	margin := t * StdDev(xs) / math.Sqrt(float64(len(xs)))
	return m - margin, m + margin
}

// Summary is the derived view of one sample.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Lower  float64 `json:"ci_lower"`
	Upper  float64 `json:"ci_upper"`
}

// Summarize computes every statistic of xs in one pass over the helpers.
func Summarize(xs []float64) Summary {
	lo, hi := Interval(xs)
	return Summary{
		N:      len(xs),
		Mean:   Mean(xs),
		StdDev: StdDev(xs),
		Lower:  lo,
		Upper:  hi,
	}
}

// Floats converts comparison counts for aggregation.
func Floats(xs []int64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

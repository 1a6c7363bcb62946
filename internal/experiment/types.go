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

// Package experiment drives the sorting benchmark: it generates inputs, runs
// every algorithm over the (regime, size, ordering) matrix in timed and counted
// passes, verifies the output of every sort and collects the raw samples into
// a Store for the statistics, report and chart stages.
package experiment

import (
	"fmt"
	"strings"
)

// Ordering selects how benchmark input is arranged before sorting.
type Ordering string

const (
	Random     Ordering = "random"
	Ascending  Ordering = "ascending"
	Descending Ordering = "descending"
)

// Orderings returns the orderings in run and report order.
func Orderings() []Ordering { return []Ordering{Random, Ascending, Descending} }

// Title returns the capitalised ordering name used in tables and legends.
func (o Ordering) Title() string {
	if o == "" {
		return ""
	}
	return strings.ToUpper(string(o[:1])) + string(o[1:])
}

func (o Ordering) valid() bool {
	switch o {
	case Random, Ascending, Descending:
		return true
	}
	return false
}

// Regime is a size bucket. Regimes share cell layout and differ only by the
// suffix on their cell keys.
type Regime string

const (
	Large Regime = "large"
	Small Regime = "small"
)

// Regimes returns the regimes in run order: large first.
func Regimes() []Regime { return []Regime{Large, Small} }

// Suffix is appended to cell keys of this regime.
func (r Regime) Suffix() string {
	if r == Small {
		return "_small"
	}
	return ""
}

// Mode is the instrumentation mode of a single sort call.
type Mode string

const (
	ModeTimed   Mode = "timed"
	ModeCounted Mode = "counted"
)

// CellKey identifies one sample cell of an algorithm.
type CellKey struct {
	Ordering Ordering
	Size     int
	Regime   Regime
}

// String renders the key as "<ordering>_<size>" with the regime suffix,
// e.g. "random_1000" or "descending_40_small".
func (k CellKey) String() string {
	return fmt.Sprintf("%s_%d%s", k.Ordering, k.Size, k.Regime.Suffix())
}

// Cell holds the raw samples of one (algorithm, ordering, size, regime).
// Times and Comparisons always have the same length: one entry per trial.
type Cell struct {
	Times       []float64 // milliseconds
	Comparisons []int64
}

// Trials returns the number of trials recorded in the cell.
func (c *Cell) Trials() int { return len(c.Times) }

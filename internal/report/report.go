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

// Package report renders aggregated benchmark results as fixed-column text
// tables: one table per (regime, ordering), the special-case comparisons and a
// closing run summary.
package report

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"sortbench"
	"sortbench/internal/experiment"
	"sortbench/internal/stats"
)

const (
	resultsHeader = "%-10s %-15s %-15s %-15s %-20s %-15s %-15s %-20s\n"
	specialHeader = "%-10s %-15s %-15s %-15s %-20s\n"
)

// Formatter writes the report for one run.
type Formatter struct {
	w      *errWriter
	cfg    experiment.Config
	params map[string]string
}

// New returns a Formatter writing to w.
func New(w io.Writer, cfg experiment.Config) *Formatter {
	return &Formatter{
		w:      &errWriter{w: w},
		cfg:    cfg,
		params: make(map[string]string),
	}
}

// SetParam records a configuration knob for the parameters table.
func (f *Formatter) SetParam(name, value string) { f.params[name] = value }

func (f *Formatter) SetParamInt(name string, v int)                { f.SetParam(name, strconv.Itoa(v)) }
func (f *Formatter) SetParamBool(name string, b bool)              { f.SetParam(name, strconv.FormatBool(b)) }
func (f *Formatter) SetParamDuration(name string, d time.Duration) { f.SetParam(name, d.String()) }

// Totals are the end-of-run counters printed in the summary table.
type Totals struct {
	Cells    int
	Sorts    int
	Failures int
	Missing  int
	Elapsed  time.Duration
}

// Results writes the numerical results for every regime with configured sizes,
// followed by the special-case tables. Cells absent from store are skipped.
func (f *Formatter) Results(store *experiment.Store) error {
	f.w.printf("\n\n=== Numerical Results for Report ===\n")
	for _, r := range experiment.Regimes() {
		sizes := f.cfg.Sizes(r)
		if len(sizes) == 0 {
			continue
		}
		f.w.printf("\n%s Lists (%d-%d elements):\n", regimeTitle(r), slices.Min(sizes), slices.Max(sizes))
		for _, o := range experiment.Orderings() {
			f.orderTable(store, r, o, sizes)
		}
	}
	f.special(store)
	return f.w.err
}

func regimeTitle(r experiment.Regime) string {
	if r == experiment.Small {
		return "Small"
	}
	return "Large"
}

func (f *Formatter) orderTable(store *experiment.Store, r experiment.Regime, o experiment.Ordering, sizes []int) {
	prec := 2
	if r == experiment.Small {
		prec = 4
	}
	f.w.printf("\nOrder: %s\n", o.Title())
	f.w.printf(resultsHeader, "Size", "Algorithm", "Avg Time (ms)", "Time StdDev", "Time CI (95%)",
		"Avg Comparisons", "Comp StdDev", "Comp CI (95%)")
	for _, size := range sizes {
		key := experiment.CellKey{Ordering: o, Size: size, Regime: r}
		for _, name := range store.Algorithms() {
			c, ok := store.Cell(name, key)
			if !ok {
				continue
			}
			t := stats.Summarize(c.Times)
			n := stats.Summarize(stats.Floats(c.Comparisons))
			f.w.printf("%-10d %-15s %-15.*f %-15.*f %-20s %-15.0f %-15.0f %-20s\n",
				size, name,
				prec, t.Mean, prec, t.StdDev, ci(t, prec),
				n.Mean, n.StdDev, ci(n, 0))
		}
	}
}

func ci(s stats.Summary, prec int) string {
	return fmt.Sprintf("[%.*f, %.*f]", prec, s.Lower, prec, s.Upper)
}

type specialCase struct {
	title     string
	algorithm string
	orderings []experiment.Ordering
}

var specialCases = []specialCase{
	{"Insertion Sort Best vs Worst Case", sortbench.InsertionName, []experiment.Ordering{experiment.Ascending, experiment.Descending}},
	{"Quick Sort Pivot Impact", sortbench.QuickName, []experiment.Ordering{experiment.Random, experiment.Ascending}},
}

func (f *Formatter) special(store *experiment.Store) {
	sizes := f.cfg.Sizes(experiment.Large)
	if len(sizes) == 0 {
		return
	}
	f.w.printf("\nSpecial Case Comparisons:\n")
	for _, sc := range specialCases {
		f.w.printf("\n%s:\n", sc.title)
		f.w.printf(specialHeader, "Size", "Order", "Avg Time (ms)", "Time StdDev", "Time CI (95%)")
		for _, size := range sizes {
			for _, o := range sc.orderings {
				c, ok := store.Cell(sc.algorithm, experiment.CellKey{Ordering: o, Size: size, Regime: experiment.Large})
				if !ok {
					continue
				}
				t := stats.Summarize(c.Times)
				f.w.printf("%-10d %-15s %-15.2f %-15.2f %-20s\n", size, o.Title(), t.Mean, t.StdDev, ci(t, 2))
			}
		}
	}
}

// Summary writes the run totals and, when any were set, the configured
// parameters in name order.
func (f *Formatter) Summary(t Totals) error {
	sep := strings.Repeat("-", 60)
	f.w.printf("\n[%s] Benchmark run summary\n", time.Now().Format(time.RFC3339))
	f.w.println(sep)
	f.w.printf("%-18s %12s\n", "Metric", "Value")
	f.w.println(sep)
	f.w.printf("%-18s %12d\n", "Cells", t.Cells)
	f.w.printf("%-18s %12d\n", "Sorts", t.Sorts)
	f.w.printf("%-18s %12d\n", "Unsorted outputs", t.Failures)
	f.w.printf("%-18s %12d\n", "Missing cells", t.Missing)
	f.w.printf("%-18s %12s\n", "Elapsed", t.Elapsed.Round(time.Millisecond))
	f.w.println(sep)

	if len(f.params) > 0 {
		keys := make([]string, 0, len(f.params))
		for k := range f.params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		f.w.printf("Configured parameters\n")
		f.w.println(sep)
		f.w.printf("%-30s %24s\n", "Name", "Value")
		f.w.println(sep)
		for _, k := range keys {
			f.w.printf("%-30s %24s\n", k, f.params[k])
		}
		f.w.println(sep)
	}
	return f.w.err
}

// errWriter remembers the first write error so the table code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) println(s string) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w, s)
}

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

// Package chart renders benchmark results as PNG line charts using gonum/plot.
//
// Three families are produced, all sharing one run timestamp in their file
// names:
//
//	comparison_{metric}_{order}[_small]_{ts}.png     one line per algorithm, log y-axis
//	individual_{algorithm}_{metric}[_small]_{ts}.png one line per ordering
//	special_{case}_{ts}.png                          fixed algorithm/ordering subsets
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sortbench"
	"sortbench/internal/experiment"
	"sortbench/internal/stats"
)

// TimestampLayout formats the run timestamp embedded in every file name.
const TimestampLayout = "20060102_150405"

const (
	width  = 10 * vg.Inch
	height = 6 * vg.Inch
)

// Metric selects which per-trial sample a chart plots.
type Metric string

const (
	Time        Metric = "time"
	Comparisons Metric = "comparisons"
)

// Metrics returns both metrics in rendering order.
func Metrics() []Metric { return []Metric{Time, Comparisons} }

func (m Metric) label() string {
	if m == Comparisons {
		return "Comparisons"
	}
	return "Time (ms)"
}

func (m Metric) mean(c *experiment.Cell) float64 {
	if m == Comparisons {
		return stats.Mean(stats.Floats(c.Comparisons))
	}
	return stats.Mean(c.Times)
}

// orderingPalette colours per-ordering lines in individual and special charts.
var orderingPalette = map[experiment.Ordering]string{
	experiment.Random:     "#1f77b4",
	experiment.Ascending:  "#ff7f0e",
	experiment.Descending: "#2ca02c",
}

// Renderer writes charts for one run into the configured output directory.
type Renderer struct {
	cfg   experiment.Config
	stamp string
	log   *zap.Logger
}

// NewRenderer returns a Renderer stamping file names with ts. A nil logger
// disables logging.
func NewRenderer(cfg experiment.Config, ts time.Time, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{cfg: cfg, stamp: ts.Format(TimestampLayout), log: log}
}

// series is one line of a chart.
type series struct {
	label string
	color string
	style string
	pts   plotter.XYs
}

// collect returns the mean of metric for every configured size of regime that
// has a cell, in size order.
func (r *Renderer) collect(store *experiment.Store, algorithm string, o experiment.Ordering, rg experiment.Regime, m Metric) plotter.XYs {
	var pts plotter.XYs
	for _, size := range r.cfg.Sizes(rg) {
		c, ok := store.Cell(algorithm, experiment.CellKey{Ordering: o, Size: size, Regime: rg})
		if !ok || c.Trials() == 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(size), Y: m.mean(c)})
	}
	return pts
}

// Comparison writes one chart per (metric, ordering, regime) comparing all
// algorithms on a log-scaled y-axis.
func (r *Renderer) Comparison(store *experiment.Store) ([]string, error) {
	r.log.Info("generating comparison graphs")
	var written []string
	for _, o := range experiment.Orderings() {
		for _, m := range Metrics() {
			for _, rg := range experiment.Regimes() {
				if len(r.cfg.Sizes(rg)) == 0 {
					continue
				}
				var lines []series
				for _, name := range store.Algorithms() {
					lines = append(lines, series{
						label: name,
						color: r.cfg.Colors[name],
						style: r.cfg.LineStyles[o],
						pts:   r.collect(store, name, o, rg, m),
					})
				}
				title := "Algorithm Comparison"
				if rg == experiment.Small {
					title += " (Small Lists)"
				}
				title += fmt.Sprintf("\n%s Order - %s", o.Title(), m.label())
				file := fmt.Sprintf("comparison_%s_%s%s_%s.png", m, o, rg.Suffix(), r.stamp)
				path, err := r.save(file, title, m.label(), true, lines)
				if err != nil {
					return written, err
				}
				written = append(written, path)
			}
		}
	}
	return written, nil
}

// Individual writes one chart per (algorithm, metric, regime) with a line per
// ordering.
func (r *Renderer) Individual(store *experiment.Store) ([]string, error) {
	r.log.Info("generating individual algorithm graphs")
	var written []string
	for _, name := range store.Algorithms() {
		for _, m := range Metrics() {
			for _, rg := range experiment.Regimes() {
				if len(r.cfg.Sizes(rg)) == 0 {
					continue
				}
				lines := r.orderingLines(store, name, rg, m, experiment.Orderings())
				title := name + " Performance"
				if rg == experiment.Small {
					title += " (Small Lists)"
				}
				title += "\n" + m.label()
				file := fmt.Sprintf("individual_%s_%s%s_%s.png", snake(name), m, rg.Suffix(), r.stamp)
				path, err := r.save(file, title, m.label(), false, lines)
				if err != nil {
					return written, err
				}
				written = append(written, path)
			}
		}
	}
	return written, nil
}

type specialChart struct {
	file      string
	title     string
	algorithm string
	orderings []experiment.Ordering
}

var specialCharts = []specialChart{
	{"special_insertion_sort_best_worst", "Insertion Sort: Best vs Worst Case", sortbench.InsertionName,
		[]experiment.Ordering{experiment.Ascending, experiment.Descending}},
	{"special_quick_sort_pivot_impact", "Quick Sort: Pivot Impact", sortbench.QuickName,
		[]experiment.Ordering{experiment.Random, experiment.Ascending}},
	{"special_merge_sort_consistency", "Merge Sort: Consistency", sortbench.MergeName,
		experiment.Orderings()},
}

// Special writes the three fixed special-case time charts over large sizes.
func (r *Renderer) Special(store *experiment.Store) ([]string, error) {
	r.log.Info("generating special case graphs")
	if len(r.cfg.Sizes(experiment.Large)) == 0 {
		return nil, nil
	}
	var written []string
	for _, sc := range specialCharts {
		lines := r.orderingLines(store, sc.algorithm, experiment.Large, Time, sc.orderings)
		path, err := r.save(sc.file+"_"+r.stamp+".png", sc.title+"\n"+Time.label(), Time.label(), false, lines)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (r *Renderer) orderingLines(store *experiment.Store, algorithm string, rg experiment.Regime, m Metric, orderings []experiment.Ordering) []series {
	lines := make([]series, 0, len(orderings))
	for _, o := range orderings {
		lines = append(lines, series{
			label: o.Title() + " Order",
			color: orderingPalette[o],
			style: r.cfg.LineStyles[o],
			pts:   r.collect(store, algorithm, o, rg, m),
		})
	}
	return lines
}

func (r *Renderer) save(file, title, ylabel string, logY bool, lines []series) (string, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "List Size (elements)"
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	plotted := 0
	for _, s := range lines {
		pts := s.pts
		if logY {
			pts = positive(pts)
		}
		if len(pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return "", fmt.Errorf("chart %s: line %q: %w", file, s.label, err)
		}
		c, err := experiment.ParseColor(s.color)
		if err != nil {
			return "", fmt.Errorf("chart %s: %w", file, err)
		}
		l.LineStyle.Color = c
		l.LineStyle.Width = vg.Points(2)
		l.LineStyle.Dashes = dashes(s.style)
		p.Add(l)
		p.Legend.Add(s.label, l)
		plotted++
	}
	// A log axis needs a positive, non-empty range. Without data the chart
	// stays linear.
	if logY && plotted > 0 {
		if p.Y.Min == p.Y.Max {
			p.Y.Min /= 10
			p.Y.Max *= 10
		}
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	path := file
	if r.cfg.OutputDir != "" {
		if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
			return "", fmt.Errorf("chart output dir: %w", err)
		}
		path = filepath.Join(r.cfg.OutputDir, file)
	}
	if err := p.Save(width, height, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", path, err)
	}
	r.log.Info("saved graph", zap.String("file", path), zap.Int("lines", plotted))
	return path, nil
}

func positive(pts plotter.XYs) plotter.XYs {
	out := make(plotter.XYs, 0, len(pts))
	for _, p := range pts {
		if p.Y > 0 {
			out = append(out, p)
		}
	}
	return out
}

func snake(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// dashes maps a matplotlib-style line style to a gonum dash pattern.
func dashes(style string) []vg.Length {
	switch style {
	case "--":
		return []vg.Length{vg.Points(6), vg.Points(3)}
	case ":":
		return []vg.Length{vg.Points(1.5), vg.Points(2)}
	case "-.":
		return []vg.Length{vg.Points(6), vg.Points(2), vg.Points(1.5), vg.Points(2)}
	default:
		return nil
	}
}

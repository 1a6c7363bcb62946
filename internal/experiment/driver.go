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

package experiment

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sortbench"
)

// ErrNotSorted is returned by Run in strict mode when an algorithm produces
// output that is not in non-decreasing order.
var ErrNotSorted = errors.New("output not sorted")

// Driver walks the run matrix. It is single-threaded: every sort runs on the
// calling goroutine, one after another.
type Driver struct {
	cfg        Config
	algorithms []sortbench.Algorithm
	gen        *Generator
	log        *zap.Logger
	obs        Observer

	store    *Store
	failures int
}

// Option customises a Driver.
type Option func(*Driver)

// WithLogger sets the logger for progress, verification errors and missing
// cell warnings. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// WithObserver attaches a telemetry observer.
func WithObserver(o Observer) Option {
	return func(d *Driver) {
		if o != nil {
			d.obs = o
		}
	}
}

// NewDriver prepares a run of algorithms under cfg. Inputs come from a
// generator seeded with cfg.Seed.
func NewDriver(cfg Config, algorithms []sortbench.Algorithm, opts ...Option) *Driver {
	d := &Driver{
		cfg:        cfg,
		algorithms: algorithms,
		gen:        NewGenerator(cfg.Seed),
		log:        zap.NewNop(),
		obs:        nopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes the full matrix and returns the populated store.
//
// For each regime, size and ordering a single input is generated and shared
// by every algorithm and trial; each sort works on its own copy. A cell is
// added to the store only after all its trials are recorded.
//
// Unsorted output is logged and counted but does not stop the run unless
// cfg.Strict is set, in which case Run returns an error wrapping ErrNotSorted.
func (d *Driver) Run() (*Store, error) {
	if d.store != nil {
		return nil, errors.New("driver has already run")
	}
	if err := d.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	names := make([]string, len(d.algorithms))
	for i, a := range d.algorithms {
		names[i] = a.Name()
	}
	d.store = NewStore(names...)

	start := time.Now()
	for _, r := range Regimes() {
		sizes := d.cfg.Sizes(r)
		if len(sizes) == 0 {
			continue
		}
		d.log.Info("starting experiments", zap.String("regime", string(r)), zap.Ints("sizes", sizes))
		for _, size := range sizes {
			for _, o := range Orderings() {
				data, err := d.gen.Generate(size, o)
				if err != nil {
					return nil, err
				}
				key := CellKey{Ordering: o, Size: size, Regime: r}
				for _, algo := range d.algorithms {
					cell, err := d.runCell(algo, key, data)
					if err != nil {
						return nil, err
					}
					d.store.Put(algo.Name(), key, cell)
					d.obs.ObserveCell(algo.Name(), key)
					d.log.Info("completed experiments",
						zap.String("algorithm", algo.Name()),
						zap.String("ordering", string(o)),
						zap.Int("size", size),
						zap.String("regime", string(r)))
				}
			}
		}
	}
	d.log.Info("experiments finished",
		zap.Int("cells", d.store.Len()),
		zap.Int("verification_failures", d.failures),
		zap.Duration("elapsed", time.Since(start)))
	return d.store, nil
}

// runCell records cfg.Trials timed and counted sorts of data.
func (d *Driver) runCell(algo sortbench.Algorithm, key CellKey, data []int) (*Cell, error) {
	cell := &Cell{
		Times:       make([]float64, 0, d.cfg.Trials),
		Comparisons: make([]int64, 0, d.cfg.Trials),
	}
	work := make([]int, len(data))
	for range d.cfg.Trials {
		copy(work, data)
		// time.Now carries a monotonic reading; Since uses it.
		t0 := time.Now()
		out := algo.SortTimed(work)
		elapsed := time.Since(t0)
		if err := d.check(algo, key, ModeTimed, out); err != nil {
			return nil, err
		}
		d.obs.ObserveSort(algo.Name(), ModeTimed, elapsed, 0)

		algo.ResetComparisons()
		copy(work, data)
		out = algo.SortCounted(work)
		n := algo.Comparisons()
		if err := d.check(algo, key, ModeCounted, out); err != nil {
			return nil, err
		}
		d.obs.ObserveSort(algo.Name(), ModeCounted, 0, n)

		cell.Times = append(cell.Times, float64(elapsed)/float64(time.Millisecond))
		cell.Comparisons = append(cell.Comparisons, n)
	}
	return cell, nil
}

func (d *Driver) check(algo sortbench.Algorithm, key CellKey, mode Mode, out []int) error {
	if sortbench.IsSorted(out) {
		return nil
	}
	d.failures++
	d.obs.ObserveVerifyFailure(algo.Name(), mode)
	d.log.Error("algorithm failed to sort",
		zap.String("algorithm", algo.Name()),
		zap.String("ordering", string(key.Ordering)),
		zap.Int("size", key.Size),
		zap.String("regime", string(key.Regime)),
		zap.String("mode", string(mode)))
	if d.cfg.Strict {
		return fmt.Errorf("%s %s sort of %s: %w", algo.Name(), mode, key, ErrNotSorted)
	}
	return nil
}

// Failures returns the number of unsorted outputs seen so far.
func (d *Driver) Failures() int { return d.failures }

// Store returns the store of the last run, or nil before Run.
func (d *Driver) Store() *Store { return d.store }

// MissingCell names an expected cell absent from a store.
type MissingCell struct {
	Algorithm string
	Key       CellKey
}

// Verify checks that the run produced every expected cell. Each missing cell
// is logged as a warning and returned; none of them is fatal.
func (d *Driver) Verify() []MissingCell {
	d.log.Info("verifying experiment results")
	store := d.store
	if store == nil {
		store = NewStore()
	}
	names := make([]string, len(d.algorithms))
	for i, a := range d.algorithms {
		names[i] = a.Name()
	}
	missing := FindMissing(d.cfg, store, names)
	for _, m := range missing {
		d.obs.ObserveMissing(m.Algorithm, m.Key)
		d.log.Warn("missing results",
			zap.String("algorithm", m.Algorithm),
			zap.String("ordering", string(m.Key.Ordering)),
			zap.Int("size", m.Key.Size),
			zap.String("regime", string(m.Key.Regime)))
	}
	return missing
}

// FindMissing lists every (algorithm, ordering, size, regime) the config
// expects that has no cell in store.
func FindMissing(cfg Config, store *Store, algorithms []string) []MissingCell {
	var missing []MissingCell
	for _, name := range algorithms {
		for _, o := range Orderings() {
			for _, r := range Regimes() {
				for _, size := range cfg.Sizes(r) {
					key := CellKey{Ordering: o, Size: size, Regime: r}
					if _, ok := store.Cell(name, key); !ok {
						missing = append(missing, MissingCell{Algorithm: name, Key: key})
					}
				}
			}
		}
	}
	return missing
}

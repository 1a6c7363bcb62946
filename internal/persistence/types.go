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

// Package persistence exports benchmark results to external stores: a JSONL
// file, Redis, InfluxDB and the Go benchmark text format.
//
// Every exporter receives the same immutable []CellRecord built once from the
// results store, so exporters may run concurrently. Records carry the run id,
// which the Redis exporter uses as its idempotency key: re-exporting the same
// run is a no-op.
package persistence

import (
	"context"

	"github.com/google/uuid"

	"sortbench/internal/experiment"
	"sortbench/internal/stats"
)

// CellRecord is the exporter-facing shape of one (algorithm, cell) result.
type CellRecord struct {
	RunID       string        `json:"run_id"`
	Algorithm   string        `json:"algorithm"`
	Key         string        `json:"key"`
	Ordering    string        `json:"ordering"`
	Size        int           `json:"size"`
	Regime      string        `json:"regime"`
	TimesMS     []float64     `json:"times_ms"`
	Comparisons []int64       `json:"comparisons"`
	TimeStats   stats.Summary `json:"time_stats"`
	CompStats   stats.Summary `json:"comparison_stats"`
}

// Exporter publishes a batch of records. Implementations must be safe to
// retry with the same records.
type Exporter interface {
	Name() string
	Export(ctx context.Context, records []CellRecord) error
	Close() error
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// Records flattens store into records in algorithm then key order.
func Records(runID string, store *experiment.Store) []CellRecord {
	var out []CellRecord
	for _, name := range store.Algorithms() {
		for _, k := range store.Keys(name) {
			c, _ := store.Cell(name, k)
			out = append(out, CellRecord{
				RunID:       runID,
				Algorithm:   name,
				Key:         k.String(),
				Ordering:    string(k.Ordering),
				Size:        k.Size,
				Regime:      string(k.Regime),
				TimesMS:     c.Times,
				Comparisons: c.Comparisons,
				TimeStats:   stats.Summarize(c.Times),
				CompStats:   stats.Summarize(stats.Floats(c.Comparisons)),
			})
		}
	}
	return out
}

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

package persistence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// InfluxMeasurement is the measurement every trial point is written to.
const InfluxMeasurement = "sort_trial"

// PointWriter is satisfied by api.WriteAPIBlocking.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// InfluxExporter writes one point per trial, tagged by run, algorithm and
// cell, so downstream queries can aggregate however they like.
type InfluxExporter struct {
	w  PointWriter
	ts time.Time
}

// NewInfluxExporter stamps every point with ts.
func NewInfluxExporter(w PointWriter, ts time.Time) *InfluxExporter {
	return &InfluxExporter{w: w, ts: ts}
}

func (e *InfluxExporter) Name() string { return "influx" }

// Export writes the points of each record in one call.
func (e *InfluxExporter) Export(ctx context.Context, records []CellRecord) error {
	for _, rec := range records {
		points := TrialPoints(rec, e.ts)
		if len(points) == 0 {
			continue
		}
		if err := e.w.WritePoint(ctx, points...); err != nil {
			return fmt.Errorf("influx write algorithm=%s cell=%s: %w", rec.Algorithm, rec.Key, err)
		}
	}
	return nil
}

// TrialPoints converts rec into one point per trial. The trial index is a tag
// so points of the same cell do not overwrite each other.
func TrialPoints(rec CellRecord, ts time.Time) []*write.Point {
	points := make([]*write.Point, 0, len(rec.TimesMS))
	for i := range rec.TimesMS {
		var comps int64
		if i < len(rec.Comparisons) {
			comps = rec.Comparisons[i]
		}
		p := influxdb2.NewPoint(
			InfluxMeasurement,
			map[string]string{
				"run_id":    rec.RunID,
				"algorithm": rec.Algorithm,
				"ordering":  rec.Ordering,
				"size":      strconv.Itoa(rec.Size),
				"regime":    rec.Regime,
				"trial":     strconv.Itoa(i),
			},
			map[string]interface{}{
				"time_ms":     rec.TimesMS[i],
				"comparisons": comps,
			},
			ts,
		)
		points = append(points, p)
	}
	return points
}

func (e *InfluxExporter) Close() error {
	if c, ok := e.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

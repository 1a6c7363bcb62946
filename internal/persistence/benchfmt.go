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
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/perf/benchfmt"
)

// BenchfmtExporter writes records in the Go benchmark format, one result line
// per trial, so the output can be fed to benchstat.
//
//	BenchmarkSort/algorithm=insertion_sort/order=random/size=1000/regime=large 1 1234567 ns/op 250000 comparisons/op
type BenchfmtExporter struct {
	mu     sync.Mutex
	w      *benchfmt.Writer
	closer io.Closer
}

// NewBenchfmtExporter writes to w. If w is an io.Closer, Close closes it.
func NewBenchfmtExporter(w io.Writer) *BenchfmtExporter {
	e := &BenchfmtExporter{w: benchfmt.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		e.closer = c
	}
	return e
}

// NewBenchfmtFileExporter creates (or truncates) path.
func NewBenchfmtFileExporter(path string) (*BenchfmtExporter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewBenchfmtExporter(f), nil
}

func (e *BenchfmtExporter) Name() string { return "benchfmt" }

func (e *BenchfmtExporter) Export(ctx context.Context, records []CellRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, res := range BenchResults(rec) {
			if err := e.w.Write(res); err != nil {
				return fmt.Errorf("benchfmt write %s: %w", rec.Key, err)
			}
		}
	}
	return nil
}

// BenchResults converts rec into one single-iteration result per trial.
func BenchResults(rec CellRecord) []*benchfmt.Result {
	name := benchfmt.Name(fmt.Sprintf("Sort/algorithm=%s/order=%s/size=%d/regime=%s",
		strings.ReplaceAll(strings.ToLower(rec.Algorithm), " ", "_"), rec.Ordering, rec.Size, rec.Regime))
	config := []benchfmt.Config{
		{Key: "pkg", Value: []byte("sortbench"), File: true},
		{Key: "runid", Value: []byte(rec.RunID), File: true},
		{Key: "trials", Value: []byte(strconv.Itoa(len(rec.TimesMS))), File: true},
	}
	out := make([]*benchfmt.Result, 0, len(rec.TimesMS))
	for i, ms := range rec.TimesMS {
		values := []benchfmt.Value{{Value: ms * 1e6, Unit: "ns/op"}}
		if i < len(rec.Comparisons) {
			values = append(values, benchfmt.Value{Value: float64(rec.Comparisons[i]), Unit: "comparisons/op"})
		}
		out = append(out, &benchfmt.Result{
			Config: config,
			Name:   name,
			Iters:  1,
			Values: values,
		})
	}
	return out
}

func (e *BenchfmtExporter) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

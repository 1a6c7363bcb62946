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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BuildExporters constructs exporters from selectors. Supported:
//   - "jsonl": sortbench_<run>.jsonl in the output directory
//   - "benchfmt": sortbench_<run>.bench in the output directory
//   - "redis": idempotent Lua publish; logs instead of writing when RedisAddr is empty
//   - "influx": one point per trial; logs instead of writing when InfluxURL is empty
//
// On error, exporters built so far are closed.
func BuildExporters(kinds []string, opts Options) ([]Exporter, error) {
	if opts.RunID == "" {
		return nil, errors.New("exporters require a run id")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	path := func(ext string) (string, error) {
		if opts.OutputDir != "" {
			if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
				return "", err
			}
		}
		return filepath.Join(opts.OutputDir, "sortbench_"+opts.RunID+ext), nil
	}

	var out []Exporter
	fail := func(err error) ([]Exporter, error) {
		for _, e := range out {
			_ = e.Close()
		}
		return nil, err
	}
	seen := make(map[string]bool)
	for _, kind := range kinds {
		kind = strings.ToLower(strings.TrimSpace(kind))
		if kind == "" || seen[kind] {
			continue
		}
		seen[kind] = true
		switch kind {
		case "jsonl":
			p, err := path(".jsonl")
			if err != nil {
				return fail(err)
			}
			e, err := NewJSONLExporter(p)
			if err != nil {
				return fail(fmt.Errorf("jsonl exporter: %w", err))
			}
			out = append(out, e)
		case "benchfmt":
			p, err := path(".bench")
			if err != nil {
				return fail(err)
			}
			e, err := NewBenchfmtFileExporter(p)
			if err != nil {
				return fail(fmt.Errorf("benchfmt exporter: %w", err))
			}
			out = append(out, e)
		case "redis":
			var evaler RedisEvaler
			if opts.RedisAddr != "" {
				evaler = NewGoRedisEvaler(opts.RedisAddr)
			} else {
				evaler = LoggingRedisEvaler{Log: log}
			}
			out = append(out, NewRedisExporter(evaler, opts.RedisMarkerTTL))
		case "influx":
			var w PointWriter
			if opts.InfluxURL != "" {
				w = NewInfluxClient(opts.InfluxURL, opts.InfluxToken, opts.InfluxOrg, opts.InfluxBucket)
			} else {
				w = LoggingPointWriter{Log: log}
			}
			ts := opts.Timestamp
			if ts.IsZero() {
				ts = time.Now()
			}
			out = append(out, NewInfluxExporter(w, ts))
		default:
			return fail(fmt.Errorf("unknown exporter: %s", kind))
		}
	}
	return out, nil
}

// ExportAll runs every exporter concurrently over the same records and closes
// them. The first export error cancels the others and is returned.
func ExportAll(ctx context.Context, records []CellRecord, exporters []Exporter, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, e := range exporters {
		g.Go(func() error {
			start := time.Now()
			if err := e.Export(gctx, records); err != nil {
				return fmt.Errorf("export %s: %w", e.Name(), err)
			}
			log.Info("exported results",
				zap.String("exporter", e.Name()),
				zap.Int("records", len(records)),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	err := g.Wait()
	for _, e := range exporters {
		if cerr := e.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", e.Name(), cerr)
		}
	}
	return err
}

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
	"strconv"
	"strings"
	"time"
)

// RedisEvaler abstracts the minimal surface we need from a Redis client.
// Implementations may wrap github.com/redis/go-redis/v9 (Cmdable.Eval) or any equivalent.
type RedisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// RedisExporter writes one hash per record using a Lua script:
// 1) SETNX marker:<run>:<algorithm>:<cell> 1
// 2) If set -> HSET result:<run>:<algorithm>:<cell> with the summary fields
// 3) EXPIRE the marker (TTL) for leak protection
// If SETNX fails (already exported), the record is skipped.
type RedisExporter struct {
	client    RedisEvaler
	markerTTL time.Duration
}

// NewRedisExporter returns an exporter with the given client and marker TTL.
func NewRedisExporter(client RedisEvaler, markerTTL time.Duration) *RedisExporter {
	if markerTTL <= 0 {
		markerTTL = 24 * time.Hour
	}
	return &RedisExporter{client: client, markerTTL: markerTTL}
}

// redisLuaScript returns 1 if the hash was written, 0 if the marker existed.
// ARGV[1] is the marker TTL in seconds; the rest are field/value pairs.
const redisLuaScript = `
local resultKey = KEYS[1]
local markerKey = KEYS[2]
local ttlSeconds = tonumber(ARGV[1])
local set = redis.call('SETNX', markerKey, 1)
if set == 1 then
  for i = 2, #ARGV, 2 do
    redis.call('HSET', resultKey, ARGV[i], ARGV[i + 1])
  end
  if ttlSeconds and ttlSeconds > 0 then
    redis.call('EXPIRE', markerKey, ttlSeconds)
  end
  return 1
else
  return 0
end
`

func redisSuffix(runID, algorithm, cell string) string {
	return fmt.Sprintf("%s:%s:%s", runID, strings.ReplaceAll(strings.ToLower(algorithm), " ", "_"), cell)
}

// Key layout helpers.
func RedisResultKey(runID, algorithm, cell string) string {
	return "sortbench:result:" + redisSuffix(runID, algorithm, cell)
}

func RedisMarkerKey(runID, algorithm, cell string) string {
	return "sortbench:marker:" + redisSuffix(runID, algorithm, cell)
}

func (r *RedisExporter) Name() string { return "redis" }

// Export evaluates the script once per record.
func (r *RedisExporter) Export(ctx context.Context, records []CellRecord) error {
	for _, rec := range records {
		if rec.RunID == "" {
			return errors.New("CellRecord.RunID must be set")
		}
		keys := []string{
			RedisResultKey(rec.RunID, rec.Algorithm, rec.Key),
			RedisMarkerKey(rec.RunID, rec.Algorithm, rec.Key),
		}
		args := append([]interface{}{int(r.markerTTL.Seconds())}, redisFields(rec)...)
		if _, err := r.client.Eval(ctx, redisLuaScript, keys, args...); err != nil {
			return fmt.Errorf("redis eval algorithm=%s cell=%s: %w", rec.Algorithm, rec.Key, err)
		}
	}
	return nil
}

func redisFields(rec CellRecord) []interface{} {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []interface{}{
		"algorithm", rec.Algorithm,
		"ordering", rec.Ordering,
		"size", strconv.Itoa(rec.Size),
		"regime", rec.Regime,
		"trials", strconv.Itoa(rec.TimeStats.N),
		"time_mean_ms", f(rec.TimeStats.Mean),
		"time_stddev_ms", f(rec.TimeStats.StdDev),
		"time_ci_lower_ms", f(rec.TimeStats.Lower),
		"time_ci_upper_ms", f(rec.TimeStats.Upper),
		"comparisons_mean", f(rec.CompStats.Mean),
		"comparisons_stddev", f(rec.CompStats.StdDev),
		"comparisons_ci_lower", f(rec.CompStats.Lower),
		"comparisons_ci_upper", f(rec.CompStats.Upper),
	}
}

func (r *RedisExporter) Close() error {
	if c, ok := r.client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

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
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoggingRedisEvaler logs the Lua evaluation instead of talking to Redis.
// It lets the CLI select the Redis exporter without a running server.
type LoggingRedisEvaler struct{ Log *zap.Logger }

func (l LoggingRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if l.Log != nil {
		l.Log.Debug("redis eval", zap.Int("script_len", len(script)), zap.Strings("keys", keys), zap.Int("args", len(args)))
	}
	return int64(1), nil
}

// GoRedisEvaler implements RedisEvaler on github.com/redis/go-redis/v9.
type GoRedisEvaler struct{ c *redis.Client }

func NewGoRedisEvaler(addr string) *GoRedisEvaler {
	opt := &redis.Options{Addr: addr}
	return &GoRedisEvaler{c: redis.NewClient(opt)}
}

func (g *GoRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	return g.c.Eval(ctx, script, keys, args...).Result()
}

func (g *GoRedisEvaler) Close() error { return g.c.Close() }

// InfluxClient pairs a blocking write API with the client that owns it.
type InfluxClient struct {
	client influxdb2.Client
	api    PointWriter
}

func NewInfluxClient(url, token, org, bucket string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{client: c, api: c.WriteAPIBlocking(org, bucket)}
}

func (c *InfluxClient) WritePoint(ctx context.Context, point ...*write.Point) error {
	return c.api.WritePoint(ctx, point...)
}

func (c *InfluxClient) Close() error {
	c.client.Close()
	return nil
}

// LoggingPointWriter logs points instead of writing them.
type LoggingPointWriter struct{ Log *zap.Logger }

func (l LoggingPointWriter) WritePoint(ctx context.Context, point ...*write.Point) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if l.Log != nil {
		l.Log.Debug("influx write", zap.Int("points", len(point)))
	}
	return nil
}

// Options holds the knobs for building exporters.
type Options struct {
	OutputDir      string
	RunID          string
	Timestamp      time.Time
	RedisAddr      string
	RedisMarkerTTL time.Duration
	InfluxURL      string
	InfluxToken    string
	InfluxOrg      string
	InfluxBucket   string
	Log            *zap.Logger
}

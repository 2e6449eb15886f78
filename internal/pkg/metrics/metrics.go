// Copyright (c) 2025 马晓璐
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

// Package metrics 为存储驱动记录 Prometheus 指标.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/pkg/code"
)

// 操作结果标签.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// Collector 驱动操作指标.
type Collector struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewCollector 在 reg 上注册指标.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "light_backend_operations_total",
				Help: "Total number of storage backend operations by driver, operation and result",
			},
			[]string{"driver", "op", "result"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "light_backend_operation_duration_seconds",
				Help:    "Duration of storage backend operations",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"driver", "op"},
		),
	}
}

var (
	defaultOnce      sync.Once
	defaultCollector *Collector
)

// Default 返回注册在 prometheus.DefaultRegisterer 上的 Collector，/metrics 暴露的就是它.
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultCollector = NewCollector(prometheus.DefaultRegisterer)
	})

	return defaultCollector
}

// Instrument 用默认 Collector 包装驱动.
func Instrument(d backend.Driver) backend.Driver {
	return Default().Instrument(d)
}

// Instrument 包装驱动，每次 Get/Put/Delete/List/Ping 都计数并记录耗时.
func (c *Collector) Instrument(d backend.Driver) backend.Driver {
	return &instrumented{Driver: d, c: c}
}

// Result 把驱动返回的错误归类为结果标签.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.IsCode(err, code.ErrDocumentNotFound):
		return ResultNotFound
	case errors.IsCode(err, code.ErrInvalidKey):
		return ResultInvalid
	default:
		return ResultError
	}
}

type instrumented struct {
	backend.Driver
	c *Collector
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	name := i.Driver.Name()
	i.c.Operations.WithLabelValues(name, op, Result(err)).Inc()
	i.c.Duration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := i.Driver.Get(ctx, key)
	i.observe("get", start, err)

	return value, err
}

func (i *instrumented) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.Driver.Put(ctx, key, value)
	i.observe("put", start, err)

	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.Driver.Delete(ctx, key)
	i.observe("delete", start, err)

	return err
}

func (i *instrumented) List(ctx context.Context, prefix string, limit int) ([]string, error) {
	start := time.Now()
	keys, err := i.Driver.List(ctx, prefix, limit)
	i.observe("list", start, err)

	return keys, err
}

func (i *instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := i.Driver.Ping(ctx)
	i.observe("ping", start, err)

	return err
}

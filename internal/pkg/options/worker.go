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

package options

import (
	"runtime"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/internal/pkg/server"
)

// NumberOfWorkers 返回 cpus 个核心对应的 worker 进程数 2*cpus+1.
func NumberOfWorkers(cpus int) int {
	return cpus*2 + 1
}

// DefaultWorkers 按本机 CPU 数计算默认 worker 数.
func DefaultWorkers() int {
	return NumberOfWorkers(runtime.NumCPU())
}

// WorkerOptions pre-fork worker 进程数.
type WorkerOptions struct {
	Workers int `json:"num-workers" mapstructure:"num-workers"`
}

func NewWorkerOptions() *WorkerOptions {
	return &WorkerOptions{Workers: DefaultWorkers()}
}

func (w *WorkerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&w.Workers, "num-workers", "W", w.Workers, "The number of worker processes. Defaults to 2*cpu+1.")
}

func (w *WorkerOptions) Validate() []error {
	if w.Workers < 1 {
		return []error{errors.WithCode(code.ErrValidation, "num-workers必须大于等于1: %d", w.Workers)}
	}

	return nil
}

func (w *WorkerOptions) ApplyTo(c *server.Config) error {
	c.Workers = w.Workers

	return nil
}

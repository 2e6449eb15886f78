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
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/component-base/validation/field"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/light/internal/light/backend/sqlite"
)

type SQLiteOptions struct {
	Dir         string        `json:"dir"          mapstructure:"dir"`
	BusyTimeout time.Duration `json:"busy-timeout" mapstructure:"busy-timeout"`
}

func NewSQLiteOptions() *SQLiteOptions {
	return &SQLiteOptions{
		Dir:         "data",
		BusyTimeout: 5 * time.Second,
	}
}

func (o *SQLiteOptions) Validate() []error {
	errs := field.ErrorList{}
	path := field.NewPath("sqlite")

	if o.Dir == "" {
		errs = append(errs, field.Required(path.Child("dir"), "必须指定数据库文件目录"))
	}
	if o.BusyTimeout < 0 {
		errs = append(errs, field.Invalid(path.Child("busy-timeout"), o.BusyTimeout, "busy-timeout不能小于0"))
	}

	agg := errs.ToAggregate()
	if agg == nil {
		return nil
	}

	return agg.Errors()
}

func (o *SQLiteOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Dir, "sqlite.dir", o.Dir, ""+
		"Directory of sqlite databases. --driver sqlite:<store> opens <dir>/<store>.db.")

	fs.DurationVar(&o.BusyTimeout, "sqlite.busy-timeout", o.BusyTimeout, ""+
		"How long a worker waits for the write lock held by another worker.")
}

func (o *SQLiteOptions) Config() *sqlite.Config {
	return &sqlite.Config{
		Dir:         o.Dir,
		BusyTimeout: o.BusyTimeout,
	}
}

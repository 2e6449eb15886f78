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
	"strings"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/light/internal/pkg/code"
)

// DefaultDriverSpec 未指定 --driver 时使用的存储.
const DefaultDriverSpec = "disk:demo_db"

// ParseDriverSpec 在第一个冒号处切分 driver:store，store 部分可以再包含冒号.
func ParseDriverSpec(spec string) (driver, store string, err error) {
	driver, store, found := strings.Cut(spec, ":")
	if !found {
		return "", "", errors.WithCode(code.ErrInvalidDriverSpec, "driver %q must have the form driver:store", spec)
	}
	if driver == "" || store == "" {
		return "", "", errors.WithCode(code.ErrInvalidDriverSpec, "driver %q has an empty driver or store", spec)
	}

	return driver, store, nil
}

// DriverOptions 存储驱动选择.
type DriverOptions struct {
	Spec string `json:"driver" mapstructure:"driver"`
}

func NewDriverOptions() *DriverOptions {
	return &DriverOptions{Spec: DefaultDriverSpec}
}

func (d *DriverOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&d.Spec, "driver", "D", d.Spec, "The database driver and store in the form `driver:store`.")
}

func (d *DriverOptions) Validate() []error {
	if _, _, err := ParseDriverSpec(d.Spec); err != nil {
		return []error{err}
	}

	return nil
}

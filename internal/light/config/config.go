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

// Package config 把命令行选项转换为运行配置.
package config

import (
	"github.com/maxiaolu1981/light/internal/light/options"
	genericoptions "github.com/maxiaolu1981/light/internal/pkg/options"
)

// LaunchOptions 启动参数，构造后不再修改.
type LaunchOptions struct {
	Bind     string
	Workers  int
	DBDriver string
	DBStore  string
}

// Config illuminate 的运行配置.
type Config struct {
	*options.Options
	Launch LaunchOptions
}

// CreateConfigFromOptions 根据选项生成运行配置，--driver 在此切分.
func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	driver, store, err := genericoptions.ParseDriverSpec(opts.Driver.Spec)
	if err != nil {
		return nil, err
	}

	return &Config{
		Options: opts,
		Launch: LaunchOptions{
			Bind:     opts.InsecureServing.Bind(),
			Workers:  opts.Worker.Workers,
			DBDriver: driver,
			DBStore:  store,
		},
	}, nil
}

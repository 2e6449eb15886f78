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
	"os"

	"github.com/maxiaolu1981/cretem/nexuscore/component-base/validation/field"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/light/internal/light/backend/disk"
)

// DiskOptions 磁盘驱动，每个 store 是 Root 下的一个目录.
type DiskOptions struct {
	Root     string `json:"root"      mapstructure:"root"`
	FileMode uint32 `json:"file-mode" mapstructure:"file-mode"`
}

func NewDiskOptions() *DiskOptions {
	return &DiskOptions{
		Root:     "data",
		FileMode: 0o644,
	}
}

func (o *DiskOptions) Validate() []error {
	errs := field.ErrorList{}
	path := field.NewPath("disk")

	if o.Root == "" {
		errs = append(errs, field.Required(path.Child("root"), "必须指定数据目录"))
	}
	if o.FileMode&^uint32(os.ModePerm) != 0 {
		errs = append(errs, field.Invalid(path.Child("file-mode"), o.FileMode, "只能包含权限位"))
	}

	agg := errs.ToAggregate()
	if agg == nil {
		return nil
	}

	return agg.Errors()
}

func (o *DiskOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Root, "disk.root", o.Root, ""+
		"Parent directory of disk stores. The store name of --driver disk:<store> is a folder under it.")

	fs.Uint32Var(&o.FileMode, "disk.file-mode", o.FileMode, ""+
		"Permission bits of document files, as a decimal number (420 is 0644).")
}

// Config 转换为磁盘驱动配置.
func (o *DiskOptions) Config() *disk.Config {
	return &disk.Config{
		Root:     o.Root,
		FileMode: os.FileMode(o.FileMode),
	}
}

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
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/validation/field"
	"github.com/spf13/pflag"
)

// JwtOptions 写操作的 Bearer 令牌保护，Key 为空时不校验.
type JwtOptions struct {
	Key string `json:"-" mapstructure:"key"`
}

func NewJwtOptions() *JwtOptions {
	return &JwtOptions{Key: ""}
}

func (j *JwtOptions) Validate() []error {
	errs := field.ErrorList{}
	if j.Key != "" && len(j.Key) < 6 {
		errs = append(errs, field.Invalid(field.NewPath("jwt", "key"), "******", "密钥长度不能少于6个字符"))
	}

	agg := errs.ToAggregate()
	if agg == nil {
		return nil
	}

	return agg.Errors()
}

func (j *JwtOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&j.Key, "jwt.key", j.Key, ""+
		"HS256 secret used to verify bearer tokens on PUT and DELETE. Empty leaves writes unprotected.")
}

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
	"net"
	"strconv"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/internal/pkg/server"
)

// InsecureServingOptions 明文 HTTP 监听地址，端口保持字符串形式.
type InsecureServingOptions struct {
	Host string `json:"host" mapstructure:"host"`
	Port string `json:"port" mapstructure:"port"`
}

// NewInsecureServingOptions 默认监听 localhost:8080.
func NewInsecureServingOptions() *InsecureServingOptions {
	return &InsecureServingOptions{
		Host: "localhost",
		Port: "8080",
	}
}

// Bind 返回 host:port，不做任何规范化.
func (i *InsecureServingOptions) Bind() string {
	return i.Host + ":" + i.Port
}

// AddFlags 绑定 -H/--host 与 -P/--port.
func (i *InsecureServingOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&i.Host, "host", "H", i.Host, "The host name or IP address to bind the server to.")
	fs.StringVarP(&i.Port, "port", "P", i.Port, "The port to bind the server to.")
}

func (i *InsecureServingOptions) Validate() []error {
	var errs []error
	if i.Host == "" {
		errs = append(errs, errors.WithCode(code.ErrValidation, "绑定的地址不能为空"))
	}

	port, err := strconv.Atoi(i.Port)
	if err != nil || port < 0 || port > 65535 {
		errs = append(errs, errors.WithCode(code.ErrValidation, "端口必须是0-65535之间的整数: %q", i.Port))
	}

	if len(errs) == 0 {
		if _, _, err := net.SplitHostPort(i.Bind()); err != nil {
			errs = append(errs, errors.WithCode(code.ErrValidation, "地址+端口组合无效: %v", err))
		}
	}

	return errs
}

// ApplyTo 写入服务器监听地址.
func (i *InsecureServingOptions) ApplyTo(c *server.Config) error {
	c.InsecureServing = &server.InsecureServingInfo{Address: i.Bind()}

	return nil
}

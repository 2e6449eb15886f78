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

	"github.com/gin-gonic/gin"
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/util/sets"
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/validation/field"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/light/internal/pkg/middleware"
	"github.com/maxiaolu1981/light/internal/pkg/server"
)

// ServerRunOptions gin 引擎的运行参数.
type ServerRunOptions struct {
	Mode            string        `json:"mode"             mapstructure:"mode"`
	Healthz         bool          `json:"healthz"          mapstructure:"healthz"`
	Middlewares     []string      `json:"middlewares"      mapstructure:"middlewares"`
	MaxQPS          float64       `json:"max-qps"          mapstructure:"max-qps"`
	Burst           int           `json:"burst"            mapstructure:"burst"`
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

func NewServerRunOptions() *ServerRunOptions {
	defaults := server.NewConfig()

	return &ServerRunOptions{
		Mode:            defaults.Mode,
		Healthz:         defaults.Healthz,
		Middlewares:     []string{"recovery", "requestid", "context", "logger", "secure", "nocache", "options"},
		MaxQPS:          0,
		Burst:           100,
		ShutdownTimeout: defaults.ShutdownTimeout,
	}
}

func (s *ServerRunOptions) Validate() []error {
	errs := field.ErrorList{}
	path := field.NewPath("server")

	if !sets.NewString(gin.DebugMode, gin.ReleaseMode, gin.TestMode).Has(s.Mode) {
		errs = append(errs, field.NotSupported(path.Child("mode"), s.Mode,
			[]string{gin.DebugMode, gin.ReleaseMode, gin.TestMode}))
	}

	known := sets.StringKeySet(middleware.Middlewares(0, 0))
	for i, m := range s.Middlewares {
		if !known.Has(m) {
			errs = append(errs, field.NotSupported(path.Child("middlewares").Index(i), m, known.List()))
		}
	}

	if s.MaxQPS < 0 {
		errs = append(errs, field.Invalid(path.Child("max-qps"), s.MaxQPS, "max-qps不能小于0"))
	}
	if s.MaxQPS > 0 && s.Burst < 1 {
		errs = append(errs, field.Invalid(path.Child("burst"), s.Burst, "启用限流时burst必须大于0"))
	}
	if s.ShutdownTimeout <= 0 {
		errs = append(errs, field.Invalid(path.Child("shutdown-timeout"), s.ShutdownTimeout, "shutdown-timeout必须大于0"))
	}

	agg := errs.ToAggregate()
	if agg == nil {
		return nil
	}

	return agg.Errors()
}

func (s *ServerRunOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.Mode, "server.mode", s.Mode, ""+
		"Start the server in a specified server mode. Supported server mode: debug, test, release.")

	fs.BoolVar(&s.Healthz, "server.healthz", s.Healthz, ""+
		"Add self readiness check and install /healthz router.")

	fs.StringSliceVar(&s.Middlewares, "server.middlewares", s.Middlewares, ""+
		"List of allowed middlewares for server, comma separated. If this list is empty default middlewares will be used.")

	fs.Float64Var(&s.MaxQPS, "server.max-qps", s.MaxQPS, ""+
		"Maximum requests per second accepted by the limit middleware, per worker process. 0 disables limiting.")

	fs.IntVar(&s.Burst, "server.burst", s.Burst, ""+
		"Token bucket burst size used with --server.max-qps.")

	fs.DurationVar(&s.ShutdownTimeout, "server.shutdown-timeout", s.ShutdownTimeout, ""+
		"Time allowed for in-flight requests to finish during graceful shutdown.")
}

func (s *ServerRunOptions) ApplyTo(c *server.Config) error {
	c.Mode = s.Mode
	c.Healthz = s.Healthz
	c.Middlewares = s.Middlewares
	c.MaxQPS = s.MaxQPS
	c.Burst = s.Burst
	c.ShutdownTimeout = s.ShutdownTimeout

	return nil
}

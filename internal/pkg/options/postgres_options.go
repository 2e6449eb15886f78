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

	"github.com/maxiaolu1981/cretem/nexuscore/component-base/util/sets"
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/validation/field"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/light/internal/light/backend/postgres"
)

var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

type PostgresOptions struct {
	Host            string        `json:"host"              mapstructure:"host"`
	Port            int           `json:"port"              mapstructure:"port"`
	Username        string        `json:"username"          mapstructure:"username"`
	Password        string        `json:"-"                 mapstructure:"password"`
	SSLMode         string        `json:"ssl-mode"          mapstructure:"ssl-mode"`
	MaxConns        int32         `json:"max-conns"         mapstructure:"max-conns"`
	MaxConnLifetime time.Duration `json:"max-conn-lifetime" mapstructure:"max-conn-lifetime"`
	ConnectTimeout  time.Duration `json:"connect-timeout"   mapstructure:"connect-timeout"`
}

func NewPostgresOptions() *PostgresOptions {
	return &PostgresOptions{
		Host:            "127.0.0.1",
		Port:            5432,
		Username:        "postgres",
		SSLMode:         "disable",
		MaxConns:        10,
		MaxConnLifetime: time.Hour,
		ConnectTimeout:  5 * time.Second,
	}
}

func (o *PostgresOptions) Validate() []error {
	errs := field.ErrorList{}
	path := field.NewPath("postgres")

	if o.Host == "" {
		errs = append(errs, field.Required(path.Child("host"), "必须指定PostgreSQL地址"))
	}
	if o.Port <= 0 || o.Port > 65535 {
		errs = append(errs, field.Invalid(path.Child("port"), o.Port, "端口必须在1-65535之间"))
	}
	if !sets.NewString(sslModes...).Has(o.SSLMode) {
		errs = append(errs, field.NotSupported(path.Child("ssl-mode"), o.SSLMode, sslModes))
	}
	if o.MaxConns < 0 {
		errs = append(errs, field.Invalid(path.Child("max-conns"), o.MaxConns, "不能小于0"))
	}

	agg := errs.ToAggregate()
	if agg == nil {
		return nil
	}

	return agg.Errors()
}

func (o *PostgresOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Host, "postgres.host", o.Host, "PostgreSQL service host address.")
	fs.IntVar(&o.Port, "postgres.port", o.Port, "PostgreSQL service port.")
	fs.StringVar(&o.Username, "postgres.username", o.Username, "Username for access to postgres.")
	fs.StringVar(&o.Password, "postgres.password", o.Password, "Password for access to postgres.")
	fs.StringVar(&o.SSLMode, "postgres.ssl-mode", o.SSLMode, "libpq sslmode: disable, allow, prefer, require, verify-ca or verify-full.")
	fs.Int32Var(&o.MaxConns, "postgres.max-conns", o.MaxConns, "Maximum pool size per worker process.")
	fs.DurationVar(&o.MaxConnLifetime, "postgres.max-conn-lifetime", o.MaxConnLifetime, "Maximum lifetime of a pooled connection.")
	fs.DurationVar(&o.ConnectTimeout, "postgres.connect-timeout", o.ConnectTimeout, "Dial timeout.")
}

func (o *PostgresOptions) Config() *postgres.Config {
	return &postgres.Config{
		Host:            o.Host,
		Port:            o.Port,
		Username:        o.Username,
		Password:        o.Password,
		SSLMode:         o.SSLMode,
		MaxConns:        o.MaxConns,
		MaxConnLifetime: o.MaxConnLifetime,
		ConnectTimeout:  o.ConnectTimeout,
	}
}

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

// Package options 汇总 illuminate 的全部命令行选项.
package options

import (
	"encoding/json"
	"strconv"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	genericoptions "github.com/maxiaolu1981/light/internal/pkg/options"
	cliflag "github.com/maxiaolu1981/light/pkg/cli/flag"
	"github.com/maxiaolu1981/light/pkg/log"
)

// Options 启动选项；监听地址、worker 数与驱动是顶层参数（-H/-P/-W/-D），其余按组加前缀.
type Options struct {
	InsecureServing         *genericoptions.InsecureServingOptions `json:"insecure" mapstructure:",squash"`
	Worker                  *genericoptions.WorkerOptions          `json:"worker"   mapstructure:",squash"`
	Driver                  *genericoptions.DriverOptions          `json:"driver"   mapstructure:",squash"`
	GenericServerRunOptions *genericoptions.ServerRunOptions       `json:"server"   mapstructure:"server"`
	FeatureOptions          *genericoptions.FeatureOptions         `json:"feature"  mapstructure:"feature"`
	DiskOptions             *genericoptions.DiskOptions            `json:"disk"     mapstructure:"disk"`
	SQLiteOptions           *genericoptions.SQLiteOptions          `json:"sqlite"   mapstructure:"sqlite"`
	MySQLOptions            *genericoptions.MySQLOptions           `json:"mysql"    mapstructure:"mysql"`
	PostgresOptions         *genericoptions.PostgresOptions        `json:"postgres" mapstructure:"postgres"`
	RedisOptions            *genericoptions.RedisOptions           `json:"redis"    mapstructure:"redis"`
	S3Options               *genericoptions.S3Options              `json:"s3"       mapstructure:"s3"`
	KafkaOptions            *genericoptions.KafkaOptions           `json:"kafka"    mapstructure:"kafka"`
	JwtOptions              *genericoptions.JwtOptions             `json:"jwt"      mapstructure:"jwt"`
	Log                     *log.Options                           `json:"log"      mapstructure:"log"`
}

// NewOptions 返回带默认值的选项.
func NewOptions() *Options {
	return &Options{
		InsecureServing:         genericoptions.NewInsecureServingOptions(),
		Worker:                  genericoptions.NewWorkerOptions(),
		Driver:                  genericoptions.NewDriverOptions(),
		GenericServerRunOptions: genericoptions.NewServerRunOptions(),
		FeatureOptions:          genericoptions.NewFeatureOptions(),
		DiskOptions:             genericoptions.NewDiskOptions(),
		SQLiteOptions:           genericoptions.NewSQLiteOptions(),
		MySQLOptions:            genericoptions.NewMySQLOptions(),
		PostgresOptions:         genericoptions.NewPostgresOptions(),
		RedisOptions:            genericoptions.NewRedisOptions(),
		S3Options:               genericoptions.NewS3Options(),
		KafkaOptions:            genericoptions.NewKafkaOptions(),
		JwtOptions:              genericoptions.NewJwtOptions(),
		Log:                     log.NewOptions(),
	}
}

// Flags 按组返回命令行参数.
func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	launch := fss.FlagSet("launch")
	o.InsecureServing.AddFlags(launch)
	o.Worker.AddFlags(launch)
	o.Driver.AddFlags(launch)

	o.GenericServerRunOptions.AddFlags(fss.FlagSet("server"))
	o.FeatureOptions.AddFlags(fss.FlagSet("features"))
	o.DiskOptions.AddFlags(fss.FlagSet("disk"))
	o.SQLiteOptions.AddFlags(fss.FlagSet("sqlite"))
	o.MySQLOptions.AddFlags(fss.FlagSet("mysql"))
	o.PostgresOptions.AddFlags(fss.FlagSet("postgres"))
	o.RedisOptions.AddFlags(fss.FlagSet("redis"))
	o.S3Options.AddFlags(fss.FlagSet("s3"))
	o.KafkaOptions.AddFlags(fss.FlagSet("kafka"))
	o.JwtOptions.AddFlags(fss.FlagSet("jwt"))
	o.Log.AddFlags(fss.FlagSet("logs"))

	return fss
}

// Validate 校验所有选项，返回全部错误.
func (o *Options) Validate() []error {
	var errs []error

	errs = append(errs, o.InsecureServing.Validate()...)
	errs = append(errs, o.Worker.Validate()...)
	errs = append(errs, o.Driver.Validate()...)
	errs = append(errs, o.GenericServerRunOptions.Validate()...)
	errs = append(errs, o.FeatureOptions.Validate()...)
	errs = append(errs, o.DiskOptions.Validate()...)
	errs = append(errs, o.SQLiteOptions.Validate()...)
	errs = append(errs, o.MySQLOptions.Validate()...)
	errs = append(errs, o.PostgresOptions.Validate()...)
	errs = append(errs, o.RedisOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.KafkaOptions.Validate()...)
	errs = append(errs, o.JwtOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	errs = append(errs, o.validateSharedPort()...)

	return errs
}

// validateSharedPort 多 worker 共享同一端口，端口 0 会让每个子进程各自拿到随机端口.
func (o *Options) validateSharedPort() []error {
	if port, err := strconv.Atoi(o.InsecureServing.Port); err == nil && port == 0 && o.Worker.Workers > 1 {
		return []error{errors.WithCode(code.ErrValidation,
			"--port 0 cannot be shared by %d workers, choose a fixed port or --num-workers 1", o.Worker.Workers)}
	}

	return nil
}

// Complete 补全配置文件中留空的切片.
func (o *Options) Complete() error {
	if o.GenericServerRunOptions.Middlewares == nil {
		o.GenericServerRunOptions.Middlewares = []string{}
	}
	if o.KafkaOptions.Brokers == nil {
		o.KafkaOptions.Brokers = []string{}
	}

	return nil
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}

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
	"fmt"

	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/light/pkg/storage"
)

type RedisOptions struct {
	Host                  string   `json:"host"                     mapstructure:"host"`
	Port                  int      `json:"port"                     mapstructure:"port"`
	Addrs                 []string `json:"addrs"                    mapstructure:"addrs"`
	Username              string   `json:"username"                 mapstructure:"username"`
	Password              string   `json:"-"                        mapstructure:"password"`
	Database              int      `json:"database"                 mapstructure:"database"`
	MasterName            string   `json:"master-name"              mapstructure:"master-name"`
	MaxIdle               int      `json:"optimisation-max-idle"    mapstructure:"optimisation-max-idle"`
	MaxActive             int      `json:"optimisation-max-active"  mapstructure:"optimisation-max-active"`
	Timeout               int      `json:"timeout"                  mapstructure:"timeout"`
	EnableCluster         bool     `json:"enable-cluster"           mapstructure:"enable-cluster"`
	UseSSL                bool     `json:"use-ssl"                  mapstructure:"use-ssl"`
	SSLInsecureSkipVerify bool     `json:"ssl-insecure-skip-verify" mapstructure:"ssl-insecure-skip-verify"`
}

func NewRedisOptions() *RedisOptions {
	return &RedisOptions{
		Host:      "127.0.0.1",
		Port:      6379,
		Addrs:     []string{},
		MaxIdle:   10,
		MaxActive: 100,
		Timeout:   5,
	}
}

// Validate 验证Redis配置选项的有效性，返回所有验证错误
func (r *RedisOptions) Validate() []error {
	var errors []error

	if len(r.Addrs) == 0 && (r.Host == "" || r.Port == 0) {
		errors = append(errors, fmt.Errorf("redis: 未提供有效地址，需配置addrs或host/port"))
	}
	if r.Database < 0 {
		errors = append(errors, fmt.Errorf("redis: 数据库索引不能为负数"))
	}
	if r.MaxIdle < 0 || r.MaxActive < 0 {
		errors = append(errors, fmt.Errorf("redis: 连接池大小不能为负数"))
	}
	if r.Timeout < 0 {
		errors = append(errors, fmt.Errorf("redis: 超时时间不能为负数"))
	}
	if r.EnableCluster && len(r.Addrs) == 0 {
		errors = append(errors, fmt.Errorf("redis: 启用集群模式时必须配置addrs"))
	}
	if r.MasterName != "" && len(r.Addrs) == 0 {
		errors = append(errors, fmt.Errorf("redis: 配置master-name时必须配置哨兵addrs"))
	}
	if r.SSLInsecureSkipVerify && !r.UseSSL {
		errors = append(errors, fmt.Errorf("redis: 仅当use-ssl为true时才能设置ssl-insecure-skip-verify"))
	}

	return errors
}

// AddFlags 将Redis配置选项添加为命令行标志
func (r *RedisOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&r.Host, "redis.host", r.Host, "Redis service host address")
	fs.IntVar(&r.Port, "redis.port", r.Port, "Redis service port number")
	fs.StringSliceVar(&r.Addrs, "redis.addrs", r.Addrs, "List of Redis server addresses (used for cluster and sentinel mode)")
	fs.StringVar(&r.Username, "redis.username", r.Username, "Username for Redis authentication")
	fs.StringVar(&r.Password, "redis.password", r.Password, "Password for Redis authentication")
	fs.IntVar(&r.Database, "redis.database", r.Database, "Redis database index to use")

	fs.StringVar(&r.MasterName, "redis.master-name", r.MasterName, "Name of the master node in sentinel mode")
	fs.BoolVar(&r.EnableCluster, "redis.enable-cluster", r.EnableCluster, "Enable Redis cluster mode")

	fs.IntVar(&r.MaxIdle, "redis.optimisation-max-idle", r.MaxIdle, "Maximum number of idle connections in the pool")
	fs.IntVar(&r.MaxActive, "redis.optimisation-max-active", r.MaxActive, "Maximum number of active connections in the pool")
	fs.IntVar(&r.Timeout, "redis.timeout", r.Timeout, "Connection timeout in seconds")

	fs.BoolVar(&r.UseSSL, "redis.use-ssl", r.UseSSL, "Enable SSL/TLS for Redis connections")
	fs.BoolVar(&r.SSLInsecureSkipVerify, "redis.ssl-insecure-skip-verify", r.SSLInsecureSkipVerify, "Skip verification of server certificate")
}

// Config 转换为 storage 客户端配置.
func (r *RedisOptions) Config() *storage.Config {
	return &storage.Config{
		Host:                  r.Host,
		Port:                  r.Port,
		Addrs:                 r.Addrs,
		MasterName:            r.MasterName,
		Username:              r.Username,
		Password:              r.Password,
		Database:              r.Database,
		MaxIdle:               r.MaxIdle,
		MaxActive:             r.MaxActive,
		Timeout:               r.Timeout,
		EnableCluster:         r.EnableCluster,
		UseSSL:                r.UseSSL,
		SSLInsecureSkipVerify: r.SSLInsecureSkipVerify,
	}
}

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

package server

import (
	"time"

	"github.com/gin-gonic/gin"
)

// InsecureServingInfo 明文 HTTP 监听配置.
type InsecureServingInfo struct {
	Address string
}

// Config 构造 GenericAPIServer 所需的配置.
type Config struct {
	InsecureServing *InsecureServingInfo
	Workers         int
	Mode            string
	Middlewares     []string
	Healthz         bool
	EnableProfiling bool
	EnableMetrics   bool
	MaxQPS          float64
	Burst           int
	ShutdownTimeout time.Duration
}

// NewConfig 返回带默认值的配置.
func NewConfig() *Config {
	return &Config{
		InsecureServing: &InsecureServingInfo{Address: "localhost:8080"},
		Workers:         1,
		Mode:            gin.ReleaseMode,
		Healthz:         true,
		Middlewares:     []string{},
		ShutdownTimeout: 5 * time.Second,
	}
}

// CompletedConfig 补全后的配置.
type CompletedConfig struct {
	*Config
}

// Complete 补全未设置的字段.
func (c *Config) Complete() CompletedConfig {
	if c.InsecureServing == nil {
		c.InsecureServing = &InsecureServingInfo{Address: "localhost:8080"}
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}

	return CompletedConfig{c}
}

// New 根据补全后的配置创建 GenericAPIServer.
func (c CompletedConfig) New() (*GenericAPIServer, error) {
	gin.SetMode(c.Mode)

	s := &GenericAPIServer{
		Engine:              gin.New(),
		insecureServingInfo: c.InsecureServing,
		middlewares:         c.Middlewares,
		healthz:             c.Healthz,
		enableMetrics:       c.EnableMetrics,
		enableProfiling:     c.EnableProfiling,
		maxQPS:              c.MaxQPS,
		burst:               c.Burst,
		shutdownTimeout:     c.ShutdownTimeout,
	}

	if err := initGenericAPIServer(s); err != nil {
		return nil, err
	}

	return s, nil
}

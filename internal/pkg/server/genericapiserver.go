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

/*
Package server 基于 gin 的通用 HTTP 服务.

GenericAPIServer 负责安装中间件与系统路由（/healthz、/version、/metrics、/debug/pprof），
在给定的监听器上提供服务，并在关闭时等待进行中的请求完成。业务路由由调用方注册到 Engine。
*/
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/version"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/internal/pkg/core"
	"github.com/maxiaolu1981/light/internal/pkg/middleware"
	"github.com/maxiaolu1981/light/pkg/log"
)

// HealthCheck 健康检查函数，返回错误表示不健康.
type HealthCheck func(ctx context.Context) error

// GenericAPIServer 通用 API 服务.
type GenericAPIServer struct {
	*gin.Engine

	insecureServingInfo *InsecureServingInfo
	middlewares         []string
	healthz             bool
	enableMetrics       bool
	enableProfiling     bool
	maxQPS              float64
	burst               int
	shutdownTimeout     time.Duration

	mu             sync.RWMutex
	checks         map[string]HealthCheck
	insecureServer *http.Server
	// closed 为 true 后 Serve 不再启动
	closed bool
}

func initGenericAPIServer(s *GenericAPIServer) error {
	s.Setup()
	if err := s.InstallMiddlewares(); err != nil {
		return err
	}
	s.InstallAPIs()

	return nil
}

// Setup 配置 gin 的路由打印.
func (s *GenericAPIServer) Setup() {
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		log.Debugf("%-6s %-25s --> %s (%d handlers)", httpMethod, absolutePath, filepath.Base(handlerName), nuHandlers)
	}
}

// InstallMiddlewares 按名称安装中间件.
func (s *GenericAPIServer) InstallMiddlewares() error {
	available := middleware.Middlewares(s.maxQPS, s.burst)
	for _, name := range s.middlewares {
		mw, ok := available[name]
		if !ok {
			return errors.WithCode(code.ErrValidation, "unknown middleware %q", name)
		}

		log.Debugf("install middleware: %s", name)
		s.Use(mw)
	}

	return nil
}

// InstallAPIs 安装系统路由.
func (s *GenericAPIServer) InstallAPIs() {
	if s.healthz {
		s.GET("/healthz", s.handleHealthz)
	}

	if s.enableMetrics {
		prometheus := ginprometheus.NewPrometheus("gin")
		prometheus.Use(s.Engine)
	}

	if s.enableProfiling {
		pprof.Register(s.Engine)
	}

	s.GET("/version", func(c *gin.Context) {
		core.WriteResponse(c, nil, version.Get())
	})

	s.NoRoute(func(c *gin.Context) {
		core.WriteResponse(c, errors.WithCode(code.ErrPageNotFound, "page %s not found", c.Request.URL.Path), nil)
	})
}

// AddHealthCheck 注册 /healthz 依赖的检查项.
func (s *GenericAPIServer) AddHealthCheck(name string, check HealthCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checks == nil {
		s.checks = make(map[string]HealthCheck)
	}
	s.checks[name] = check
}

func (s *GenericAPIServer) handleHealthz(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := map[string]string{"status": "ok"}
	for name, check := range s.checks {
		if err := check(c.Request.Context()); err != nil {
			log.L(c).Warnf("health check %s failed: %v", name, err)
			c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", name: err.Error()})

			return
		}
		status[name] = "ok"
	}

	core.WriteResponse(c, nil, status)
}

// Address 返回监听地址.
func (s *GenericAPIServer) Address() string {
	return s.insecureServingInfo.Address
}

// Serve 在给定监听器上提供服务，阻塞到 Close 被调用或出错.
// Close 已被调用时关闭 ln 并立即返回 nil.
func (s *GenericAPIServer) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()

		return nil
	}
	s.insecureServer = &http.Server{
		Handler:           s,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	srv := s.insecureServer
	s.mu.Unlock()

	var eg errgroup.Group
	eg.Go(func() error {
		log.Infof("Start to listening the incoming requests on http address: %s", ln.Addr().String())

		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}

		log.Infof("Server on %s stopped", ln.Addr().String())

		return nil
	})

	if s.healthz {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.ping(ctx, ln.Addr().String()); err != nil {
			_ = s.Close()
			_ = eg.Wait()

			return err
		}
	}

	return eg.Wait()
}

// Close 优雅关闭服务，最多等待 shutdownTimeout.
func (s *GenericAPIServer) Close() error {
	s.mu.Lock()
	s.closed = true
	srv := s.insecureServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Shutdown insecure server failed: %s", err.Error())

		return err
	}

	return nil
}

// ping 请求自身的 /healthz，确认服务已可访问.
func (s *GenericAPIServer) ping(ctx context.Context, address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("invalid address %s: %w", address, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	url := fmt.Sprintf("http://%s/healthz", net.JoinHostPort(host, port))
	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				log.Infof("The router has been deployed successfully after %d attempt(s).", attempt)

				return nil
			}
			log.Infof("Waiting for the router, status code %d", resp.StatusCode)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("the router has no response, or it might took too long to start up: %w", ctx.Err())
		case <-time.After(200 * time.Millisecond):
		}
	}
}

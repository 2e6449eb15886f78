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

package light

import (
	"context"
	"os"
	"sync"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/light/config"
	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/internal/pkg/prefork"
	genericapiserver "github.com/maxiaolu1981/light/internal/pkg/server"
	"github.com/maxiaolu1981/light/pkg/log"
	"github.com/maxiaolu1981/light/pkg/shutdown"
	"github.com/maxiaolu1981/light/pkg/shutdown/shutdownmanagers/posixsignal"
)

// newMaster 测试中替换为不重新执行自身的 Master.
var newMaster = prefork.NewMaster

type apiServer struct {
	gs               *shutdown.GracefulShutdown
	genericAPIServer *genericapiserver.GenericAPIServer
	driver           backend.Driver
	launch           config.LaunchOptions

	ctx         context.Context
	cancel      context.CancelFunc
	closeDriver sync.Once
	done        chan struct{}
}

type preparedAPIServer struct {
	*apiServer
}

// runServer 阻塞运行服务，收到 SIGINT/SIGTERM 后优雅退出.
func runServer(ctx context.Context, srv *genericapiserver.GenericAPIServer, d backend.Driver, cfg *config.Config) error {
	s := &apiServer{
		gs:               shutdown.New(),
		genericAPIServer: srv,
		driver:           d,
		launch:           cfg.Launch,
		done:             make(chan struct{}),
	}
	s.gs.AddShutdownManager(posixsignal.NewPosixSignalManager())
	s.gs.SetErrorHandler(shutdown.ErrorFunc(func(err error) {
		log.Errorf("graceful shutdown: %s", err.Error())
	}))

	return s.PrepareRun(ctx).Run()
}

// PrepareRun 注册健康检查与关闭回调.
func (s *apiServer) PrepareRun(ctx context.Context) preparedAPIServer {
	s.genericAPIServer.AddHealthCheck(s.driver.Name(), s.driver.Ping)

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.gs.AddShutdownCallback(shutdown.ShutdownFunc(func(string) error {
		s.cancel()
		var errs []error
		if err := s.genericAPIServer.Close(); err != nil {
			errs = append(errs, err)
		}
		<-s.done
		if err := s.release(); err != nil {
			errs = append(errs, err)
		}
		log.Flush()

		return errors.NewAggregate(errs)
	}))

	return preparedAPIServer{s}
}

func (s preparedAPIServer) Run() error {
	defer s.cancel()

	if err := s.gs.Start(); err != nil {
		log.Fatalf("start shutdown manager failed: %s", err.Error())
	}

	log.Infow("starting light server",
		"bind", s.launch.Bind,
		"workers", s.launch.Workers,
		log.KeyDriver, s.launch.DBDriver,
		"store", s.launch.DBStore,
	)

	err := s.serve(s.ctx)
	close(s.done)
	if relErr := s.release(); err == nil {
		err = relErr
	}

	return err
}

// serve 多 worker 时由主进程监督子进程，子进程与单 worker 时直接监听.
func (s preparedAPIServer) serve(ctx context.Context) error {
	if s.launch.Workers > 1 && !prefork.IsChild() {
		if prefork.ReusePort {
			return newMaster(s.launch.Workers).Run(ctx)
		}
		log.Warnf("SO_REUSEPORT is not supported on this platform, serving %s with a single process", s.launch.Bind)
	}

	// 监听前后都可能已收到退出信号.
	if ctx.Err() != nil {
		return nil
	}
	ln, err := prefork.Listen(ctx, s.launch.Bind)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}

		return errors.WrapC(err, code.ErrPrefork, "listen on %s failed: %s", s.launch.Bind, err.Error())
	}
	if ctx.Err() != nil {
		_ = ln.Close()

		return nil
	}
	stop := context.AfterFunc(ctx, func() { _ = s.genericAPIServer.Close() })
	defer stop()

	if idx := prefork.ChildIndex(); idx >= 0 {
		log.Infow("worker serving", "index", idx, "pid", os.Getpid(), "bind", s.launch.Bind)
	}

	return s.genericAPIServer.Serve(ln)
}

func (s *apiServer) release() error {
	var err error
	s.closeDriver.Do(func() {
		err = s.driver.Close()
	})

	return err
}

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
Package shutdown 提供应用优雅关闭的回调机制.

关闭管理器（ShutdownManager）负责监听关闭事件（如 POSIX 信号），
事件发生时 GracefulShutdown 依次调用管理器的 ShutdownStart、
并发执行全部关闭回调、等待回调结束，最后调用管理器的 ShutdownFinish。

	gs := shutdown.New()
	gs.AddShutdownManager(posixsignal.NewPosixSignalManager())
	gs.AddShutdownCallback(shutdown.ShutdownFunc(func(string) error {
		return server.Close()
	}))
	if err := gs.Start(); err != nil {
		return err
	}
*/
package shutdown

import (
	"sync"
)

// ShutdownCallback 关闭时执行的回调，参数为触发关闭的管理器名称.
type ShutdownCallback interface {
	OnShutdown(string) error
}

// ShutdownFunc 函数形式的 ShutdownCallback.
type ShutdownFunc func(string) error

// OnShutdown 调用函数本身.
func (f ShutdownFunc) OnShutdown(shutdownManager string) error {
	return f(shutdownManager)
}

// ShutdownManager 关闭事件来源.
type ShutdownManager interface {
	GetName() string
	Start(gs GSInterface) error
	ShutdownStart() error
	ShutdownFinish() error
}

// ErrorHandler 处理关闭过程中产生的错误.
type ErrorHandler interface {
	OnError(err error)
}

// ErrorFunc 函数形式的 ErrorHandler.
type ErrorFunc func(err error)

// OnError 调用函数本身.
func (f ErrorFunc) OnError(err error) {
	f(err)
}

// GSInterface 管理器可见的 GracefulShutdown 接口.
type GSInterface interface {
	StartShutdown(sm ShutdownManager)
	ReportError(err error)
	AddShutdownCallback(shutdownCallback ShutdownCallback)
}

// GracefulShutdown 管理关闭管理器与关闭回调.
type GracefulShutdown struct {
	mu           sync.Mutex
	once         sync.Once
	callbacks    []ShutdownCallback
	managers     []ShutdownManager
	errorHandler ErrorHandler
}

// New 创建 GracefulShutdown.
func New() *GracefulShutdown {
	return &GracefulShutdown{
		callbacks: make([]ShutdownCallback, 0, 10),
		managers:  make([]ShutdownManager, 0, 3),
	}
}

// Start 启动全部关闭管理器.
func (gs *GracefulShutdown) Start() error {
	for _, manager := range gs.managers {
		if err := manager.Start(gs); err != nil {
			return err
		}
	}

	return nil
}

// AddShutdownManager 添加关闭管理器.
func (gs *GracefulShutdown) AddShutdownManager(manager ShutdownManager) {
	gs.managers = append(gs.managers, manager)
}

// AddShutdownCallback 添加关闭回调.
func (gs *GracefulShutdown) AddShutdownCallback(shutdownCallback ShutdownCallback) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.callbacks = append(gs.callbacks, shutdownCallback)
}

// SetErrorHandler 设置错误处理器.
func (gs *GracefulShutdown) SetErrorHandler(errorHandler ErrorHandler) {
	gs.errorHandler = errorHandler
}

// StartShutdown 执行关闭流程，多次触发只执行一次.
func (gs *GracefulShutdown) StartShutdown(sm ShutdownManager) {
	gs.once.Do(func() {
		gs.ReportError(sm.ShutdownStart())

		gs.mu.Lock()
		callbacks := append([]ShutdownCallback(nil), gs.callbacks...)
		gs.mu.Unlock()

		var wg sync.WaitGroup
		for _, shutdownCallback := range callbacks {
			wg.Add(1)
			go func(shutdownCallback ShutdownCallback) {
				defer wg.Done()
				gs.ReportError(shutdownCallback.OnShutdown(sm.GetName()))
			}(shutdownCallback)
		}
		wg.Wait()

		gs.ReportError(sm.ShutdownFinish())
	})
}

// ReportError 把错误交给错误处理器.
func (gs *GracefulShutdown) ReportError(err error) {
	if err != nil && gs.errorHandler != nil {
		gs.errorHandler.OnError(err)
	}
}

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
Package posixsignal 监听 POSIX 信号的关闭管理器，默认监听 SIGINT 和 SIGTERM.
ShutdownFinish 以 os.Exit(0) 结束进程.
*/
package posixsignal

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/maxiaolu1981/light/pkg/shutdown"
)

// Name 管理器名称.
const Name = "PosixSignalManager"

var osExit = os.Exit

// PosixSignalManager 信号关闭管理器.
type PosixSignalManager struct {
	signals []os.Signal
}

// NewPosixSignalManager 创建信号关闭管理器，未指定信号时监听 SIGINT、SIGTERM.
func NewPosixSignalManager(sig ...os.Signal) *PosixSignalManager {
	if len(sig) == 0 {
		sig = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	return &PosixSignalManager{
		signals: sig,
	}
}

// GetName 返回管理器名称.
func (posixSignalManager *PosixSignalManager) GetName() string {
	return Name
}

// Start 开始监听信号，收到信号后触发关闭.
func (posixSignalManager *PosixSignalManager) Start(gs shutdown.GSInterface) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, posixSignalManager.signals...)

	go func() {
		<-c
		gs.StartShutdown(posixSignalManager)
	}()

	return nil
}

// ShutdownStart 无需处理.
func (posixSignalManager *PosixSignalManager) ShutdownStart() error {
	return nil
}

// ShutdownFinish 退出进程.
func (posixSignalManager *PosixSignalManager) ShutdownFinish() error {
	osExit(0)

	return nil
}

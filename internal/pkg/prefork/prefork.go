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
Package prefork 以多进程方式运行 HTTP 服务.

主进程按 Workers 数量重新执行自身，子进程通过环境变量 LIGHT_PREFORK_CHILD 识别身份，
各自以 SO_REUSEPORT 监听同一地址并由内核分发连接。
主进程只负责监督：任一子进程异常退出时终止其余子进程并返回错误；
上下文取消时向所有子进程发送 SIGTERM，等待其退出后返回。子进程不会被重启。
*/
package prefork

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"golang.org/x/sync/errgroup"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/pkg/log"
)

// EnvChild 标记子进程的环境变量，值为子进程序号.
const EnvChild = "LIGHT_PREFORK_CHILD"

const defaultStopTimeout = 10 * time.Second

// IsChild 当前进程是否为 prefork 子进程.
func IsChild() bool {
	return os.Getenv(EnvChild) != ""
}

// ChildIndex 返回子进程序号，主进程返回 -1.
func ChildIndex() int {
	idx, err := strconv.Atoi(os.Getenv(EnvChild))
	if err != nil {
		return -1
	}

	return idx
}

// CommandFunc 构造第 index 个子进程的命令.
type CommandFunc func(index int) (*exec.Cmd, error)

// Master 子进程监督者.
type Master struct {
	Workers     int
	Command     CommandFunc
	StopTimeout time.Duration
}

// NewMaster 创建以重新执行当前程序的方式派生子进程的 Master.
func NewMaster(workers int) *Master {
	return &Master{
		Workers:     workers,
		Command:     ReExec,
		StopTimeout: defaultStopTimeout,
	}
}

// ReExec 以相同参数重新执行当前程序，并注入子进程标记.
func ReExec(index int) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), EnvChild+"="+strconv.Itoa(index))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

type child struct {
	index int
	cmd   *exec.Cmd
	done  chan struct{}
}

// Run 启动所有子进程并阻塞到它们全部退出.
func (m *Master) Run(ctx context.Context) error {
	if m.Workers < 1 {
		return errors.WithCode(code.ErrPrefork, "workers must be at least 1, got %d", m.Workers)
	}

	children := make([]*child, 0, m.Workers)
	for i := 0; i < m.Workers; i++ {
		cmd, err := m.Command(i)
		if err == nil {
			err = cmd.Start()
		}
		if err != nil {
			m.stop(children)
			for _, c := range children {
				_ = c.cmd.Wait()
				close(c.done)
			}

			return errors.WrapC(err, code.ErrPrefork, "start worker %d failed", i)
		}

		log.Infow("worker started", "index", i, "pid", cmd.Process.Pid)
		children = append(children, &child{index: i, cmd: cmd, done: make(chan struct{})})
	}

	var stopping sync.Once
	stopAll := func() { stopping.Do(func() { m.stop(children) }) }

	var wg sync.WaitGroup
	eg, egCtx := errgroup.WithContext(ctx)
	for _, c := range children {
		c := c
		wg.Add(1)
		eg.Go(func() error {
			defer wg.Done()
			err := c.cmd.Wait()
			close(c.done)

			pid := c.cmd.Process.Pid
			if egCtx.Err() != nil {
				log.Infow("worker stopped", "index", c.index, "pid", pid)

				return nil
			}
			if err != nil {
				log.Errorw("worker exited", "index", c.index, "pid", pid, "error", err.Error())

				return errors.WrapC(err, code.ErrPrefork, "worker %d (pid %d) exited", c.index, pid)
			}
			log.Warnw("worker exited", "index", c.index, "pid", pid)

			return nil
		})
	}

	exited := make(chan struct{})
	go func() {
		wg.Wait()
		close(exited)
	}()

	eg.Go(func() error {
		select {
		case <-egCtx.Done():
			stopAll()
		case <-exited:
		}

		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	log.Info("all workers exited")

	return nil
}

// stop 向仍在运行的子进程发送 SIGTERM，超过 StopTimeout 后强制结束.
func (m *Master) stop(children []*child) {
	timeout := m.StopTimeout
	if timeout <= 0 {
		timeout = defaultStopTimeout
	}

	for _, c := range children {
		if isClosed(c.done) {
			continue
		}
		if err := c.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			_ = c.cmd.Process.Kill()
		}
	}

	for _, c := range children {
		c := c
		time.AfterFunc(timeout, func() {
			if !isClosed(c.done) {
				log.Warnw("worker did not stop in time, killing", "index", c.index, "pid", c.cmd.Process.Pid)
				_ = c.cmd.Process.Kill()
			}
		})
	}
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

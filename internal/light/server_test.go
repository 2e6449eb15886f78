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

//go:build linux || darwin

package light

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/internal/light/backend/memory"
	"github.com/maxiaolu1981/light/internal/pkg/prefork"
)

func freePort(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	return strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
}

func TestRunServer_SingleProcess(t *testing.T) {
	t.Setenv(prefork.EnvChild, "")

	port := freePort(t)
	cfg := newTestConfig(t, "-H", "127.0.0.1", "-P", port, "-W", "1", "-D", "memory:run", "--feature.enable-metrics=false")
	srv, err := createAPIServer(cfg)
	require.NoError(t, err)

	closed := false
	d := &closeRecorder{Driver: memory.New("run"), closed: &closed}
	installController(srv.Engine, d, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- runServer(ctx, srv, d, cfg) }()

	url := fmt.Sprintf("http://127.0.0.1:%s/healthz", port)
	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint: noctx
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)
	assert.Contains(t, body, "memory")

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, closed)
}

func TestRunServer_ListenFailure(t *testing.T) {
	t.Setenv(prefork.EnvChild, "")

	cfg := newTestConfig(t, "-H", "127.0.0.1", "-P", "0", "-W", "1", "--feature.enable-metrics=false")
	cfg.Launch.Bind = "127.0.0.1:99999"
	srv, err := createAPIServer(cfg)
	require.NoError(t, err)

	closed := false
	d := &closeRecorder{Driver: memory.New("bad"), closed: &closed}

	err = runServer(context.Background(), srv, d, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on 127.0.0.1:99999 failed")
	assert.True(t, closed)
}

func TestRunServer_MasterMode(t *testing.T) {
	t.Setenv(prefork.EnvChild, "")

	var started []int
	orig := newMaster
	newMaster = func(workers int) *prefork.Master {
		return &prefork.Master{
			Workers: workers,
			Command: func(index int) (*exec.Cmd, error) {
				started = append(started, index)

				return exec.Command("true"), nil
			},
			StopTimeout: time.Second,
		}
	}
	defer func() { newMaster = orig }()

	cfg := newTestConfig(t, "-H", "127.0.0.1", "-P", freePort(t), "-W", "3", "--feature.enable-metrics=false")
	srv, err := createAPIServer(cfg)
	require.NoError(t, err)

	closed := false
	d := &closeRecorder{Driver: memory.New("master"), closed: &closed}

	require.NoError(t, runServer(context.Background(), srv, d, cfg))
	assert.Equal(t, []int{0, 1, 2}, started)
	assert.True(t, closed)
}

func TestServe_CancelledBeforeStart(t *testing.T) {
	t.Setenv(prefork.EnvChild, "")

	cfg := newTestConfig(t, "-H", "127.0.0.1", "-P", freePort(t), "-W", "1", "--feature.enable-metrics=false")
	srv, err := createAPIServer(cfg)
	require.NoError(t, err)

	s := &apiServer{genericAPIServer: srv, launch: cfg.Launch}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- preparedAPIServer{s}.serve(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve blocked on a cancelled context")
	}
}

func TestServe_ClosedBeforeServe(t *testing.T) {
	t.Setenv(prefork.EnvChild, "")

	cfg := newTestConfig(t, "-H", "127.0.0.1", "-P", freePort(t), "-W", "1", "--feature.enable-metrics=false")
	srv, err := createAPIServer(cfg)
	require.NoError(t, err)

	// 信号先于 Serve 到达，关闭回调只能看到尚未启动的服务.
	require.NoError(t, srv.Close())

	s := &apiServer{genericAPIServer: srv, launch: cfg.Launch}
	done := make(chan error, 1)
	go func() { done <- preparedAPIServer{s}.serve(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve blocked after Close")
	}
}

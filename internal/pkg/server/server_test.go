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
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/internal/pkg/code"
)

func newTestServer(t *testing.T, mutate func(*Config)) *GenericAPIServer {
	t.Helper()

	cfg := NewConfig()
	cfg.Mode = gin.TestMode
	cfg.Middlewares = []string{"recovery", "requestid", "context"}
	if mutate != nil {
		mutate(cfg)
	}

	s, err := cfg.Complete().New()
	require.NoError(t, err)

	return s
}

func TestConfig_Complete(t *testing.T) {
	c := &Config{}
	cc := c.Complete()

	assert.Equal(t, 1, cc.Workers)
	assert.Equal(t, 5*time.Second, cc.ShutdownTimeout)
	assert.Equal(t, "localhost:8080", cc.InsecureServing.Address)
}

func TestNew_UnknownMiddleware(t *testing.T) {
	cfg := NewConfig()
	cfg.Mode = gin.TestMode
	cfg.Middlewares = []string{"no-such-middleware"}

	_, err := cfg.Complete().New()
	assert.Error(t, err)
}

func TestSystemRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, code.ErrPageNotFound, resp["code"])
}

func TestHealthz_FailingCheck(t *testing.T) {
	s := newTestServer(t, nil)
	s.AddHealthCheck("disk", func(context.Context) error { return errors.New("disk unavailable") })

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "disk unavailable")
}

func TestServeAndClose(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.ShutdownTimeout = time.Second })
	s.GET("/hello", func(c *gin.Context) { c.String(http.StatusOK, "world") })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- s.Serve(ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/hello")
		if err != nil {
			return false
		}
		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, s.Close())

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Close")
	}
}

func TestClose_NotStarted(t *testing.T) {
	s := newTestServer(t, nil)
	assert.NoError(t, s.Close())
}

func TestServe_AfterClose(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.Close())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- s.Serve(ln) }()

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve blocked after Close")
	}

	// 监听器已被关闭.
	_, err = ln.Accept()
	assert.Error(t, err)
}

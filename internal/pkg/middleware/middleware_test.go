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

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/pkg/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mws ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mws...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(log.KeyRequestID))
	})
	r.PUT("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(KeySubject))
	})

	return r
}

func do(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestMiddlewares_Names(t *testing.T) {
	mws := Middlewares(10, 10)
	for _, name := range []string{"recovery", "secure", "options", "nocache", "cors", "requestid", "context", "logger", "limit", "dump"} {
		assert.Contains(t, mws, name)
	}
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID(), Context())

	w := do(r, http.MethodGet, "/ping", nil)
	rid := w.Header().Get(XRequestIDKey)
	assert.Len(t, rid, 36)
	assert.Equal(t, rid, w.Body.String())

	w = do(r, http.MethodGet, "/ping", http.Header{XRequestIDKey: []string{"given-id"}})
	assert.Equal(t, "given-id", w.Header().Get(XRequestIDKey))
	assert.Equal(t, "given-id", w.Body.String())
}

func TestSecureAndNoCache(t *testing.T) {
	r := newEngine(Secure, NoCache)

	w := do(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestOptions(t *testing.T) {
	r := newEngine(Options)
	r.OPTIONS("/ping", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := do(r, http.MethodOptions, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLimit(t *testing.T) {
	r := newEngine(Limit(1, 1))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/ping", nil).Code)
}

func TestLimit_Disabled(t *testing.T) {
	r := newEngine(Limit(0, 0))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", nil).Code)
	}
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   "tester",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString(key)
	require.NoError(t, err)

	return s
}

func TestAuth(t *testing.T) {
	secret := "light-secret"
	r := newEngine(Auth(secret))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"缺少令牌", "", http.StatusUnauthorized},
		{"格式错误", "Token abc", http.StatusUnauthorized},
		{"签名错误", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"已过期", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"有效令牌", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(time.Hour)), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			w := do(r, http.MethodPut, "/ping", header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "tester", w.Body.String())
			}
		})
	}
}

func TestAuth_EmptyKeyAllowsAll(t *testing.T) {
	r := newEngine(Auth(""))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, "/ping", nil).Code)
}

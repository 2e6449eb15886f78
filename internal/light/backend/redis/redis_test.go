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

package redis

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/internal/light/backend/backendtest"
	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/pkg/storage"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *storage.Config) {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	return mr, &storage.Config{Host: mr.Host(), Port: port}
}

func TestRedis(t *testing.T) {
	_, cfg := newMiniredis(t)

	d, err := New(context.Background(), cfg, "demo_db")
	require.NoError(t, err)
	defer d.Close()

	backendtest.Run(t, d)
}

func TestRedis_KeyPrefixIsolation(t *testing.T) {
	mr, cfg := newMiniredis(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := New(ctx, cfg, "b")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Put(ctx, "doc", []byte(`1`)))

	assert.True(t, mr.Exists("a:doc"))

	keys, err := b.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedis_ListSkipsForeignKeys(t *testing.T) {
	mr, cfg := newMiniredis(t)
	ctx := context.Background()

	d, err := New(ctx, cfg, "docs")
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Put(ctx, "doc", []byte(`1`)))
	require.NoError(t, mr.Set("docs:session:42", "x"))
	require.NoError(t, mr.Set("docs:", "x"))

	keys, err := d.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, keys)
}

func TestRedis_Unreachable(t *testing.T) {
	mr, cfg := newMiniredis(t)
	mr.Close()

	_, err := New(context.Background(), cfg, "demo_db")
	assert.True(t, errors.IsCode(err, code.ErrBackend))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "a", "b", "c", "c"}))
	assert.Nil(t, dedupe(nil))
}

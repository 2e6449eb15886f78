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

// Package backendtest 提供所有存储驱动共用的行为测试.
package backendtest

import (
	"context"
	"testing"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/pkg/code"
)

// Run 对驱动执行通用的读写删列测试，驱动应当为空.
func Run(t *testing.T, d backend.Driver) {
	t.Helper()
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, d.Ping(ctx))
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := d.Get(ctx, "missing")
		require.Error(t, err)
		assert.True(t, backend.IsNotFound(err), "%v", err)
	})

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, d.Put(ctx, "doc-1", []byte(`{"a":1}`)))

		got, err := d.Get(ctx, "doc-1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, string(got))
	})

	t.Run("PutReplaces", func(t *testing.T) {
		require.NoError(t, d.Put(ctx, "doc-1", []byte(`{"a":2}`)))

		got, err := d.Get(ctx, "doc-1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":2}`, string(got))
	})

	t.Run("List", func(t *testing.T) {
		for _, k := range []string{"doc-3", "doc-2", "other", "doc_x"} {
			require.NoError(t, d.Put(ctx, k, []byte(`{}`)))
		}

		keys, err := d.List(ctx, "doc-", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"doc-1", "doc-2", "doc-3"}, keys)

		keys, err = d.List(ctx, "doc-", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"doc-1", "doc-2"}, keys)

		keys, err = d.List(ctx, "", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"doc-1", "doc-2", "doc-3", "doc_x", "other"}, keys)

		keys, err = d.List(ctx, "nothing", 0)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, d.Delete(ctx, "doc-2"))

		_, err := d.Get(ctx, "doc-2")
		assert.True(t, backend.IsNotFound(err))

		err = d.Delete(ctx, "doc-2")
		assert.True(t, backend.IsNotFound(err), "%v", err)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		for _, key := range []string{"", "../escape", "a/b", ".dot"} {
			assert.True(t, errors.IsCode(d.Put(ctx, key, []byte(`{}`)), code.ErrInvalidKey), key)

			_, err := d.Get(ctx, key)
			assert.True(t, errors.IsCode(err, code.ErrInvalidKey), key)
			assert.True(t, errors.IsCode(d.Delete(ctx, key), code.ErrInvalidKey), key)
		}
	})
}

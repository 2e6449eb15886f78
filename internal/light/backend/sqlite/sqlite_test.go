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

package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/internal/light/backend/backendtest"
	"github.com/maxiaolu1981/light/internal/pkg/code"
)

func TestSQLite(t *testing.T) {
	d, err := New(context.Background(), &Config{Dir: t.TempDir()}, "demo_db")
	require.NoError(t, err)
	defer d.Close()

	backendtest.Run(t, d)
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	d, err := New(ctx, &Config{Dir: dir}, "persist")
	require.NoError(t, err)
	require.NoError(t, d.Put(ctx, "k", []byte(`"v"`)))
	require.NoError(t, d.Close())

	_, err = os.Stat(filepath.Join(dir, "persist.db"))
	require.NoError(t, err)

	d, err = New(ctx, &Config{Dir: dir}, "persist")
	require.NoError(t, err)
	defer d.Close()

	got, err := d.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"v"`, string(got))
}

func TestSQLite_PrefixIsCaseSensitive(t *testing.T) {
	d, err := New(context.Background(), &Config{Dir: t.TempDir()}, "case")
	require.NoError(t, err)
	defer d.Close()

	ctx := context.Background()
	require.NoError(t, d.Put(ctx, "Alpha", []byte(`1`)))
	require.NoError(t, d.Put(ctx, "alpha", []byte(`2`)))

	keys, err := d.List(ctx, "a", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, keys)
}

func TestSQLite_InvalidStore(t *testing.T) {
	_, err := New(context.Background(), &Config{Dir: t.TempDir()}, "a/b")
	assert.True(t, errors.IsCode(err, code.ErrInvalidDriverSpec))
}

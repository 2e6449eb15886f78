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

package disk

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

func TestDisk(t *testing.T) {
	d, err := New(&Config{Root: t.TempDir()}, "demo_db")
	require.NoError(t, err)

	backendtest.Run(t, d)
}

func TestDisk_FilePerKey(t *testing.T) {
	root := t.TempDir()
	d, err := New(&Config{Root: root}, "testdb")
	require.NoError(t, err)

	require.NoError(t, d.Put(context.Background(), "alpha", []byte(`{"x":true}`)))

	data, err := os.ReadFile(filepath.Join(root, "testdb", "alpha"))
	require.NoError(t, err)
	assert.Equal(t, `{"x":true}`, string(data))

	entries, err := os.ReadDir(filepath.Join(root, "testdb"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestDisk_SkipsForeignEntries(t *testing.T) {
	root := t.TempDir()
	d, err := New(&Config{Root: root}, "testdb")
	require.NoError(t, err)

	require.NoError(t, os.Mkdir(filepath.Join(root, "testdb", "subdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "testdb", tempPrefix+"123"), []byte("x"), 0o644))
	require.NoError(t, d.Put(context.Background(), "doc", []byte(`{}`)))

	keys, err := d.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, keys)
}

func TestDisk_InvalidStore(t *testing.T) {
	_, err := New(&Config{Root: t.TempDir()}, "../escape")
	assert.True(t, errors.IsCode(err, code.ErrInvalidDriverSpec))
}

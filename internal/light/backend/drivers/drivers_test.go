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

package drivers

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/internal/light/backend/disk"
	"github.com/maxiaolu1981/light/internal/light/options"
	"github.com/maxiaolu1981/light/internal/pkg/code"
)

func TestNewRegistry_Names(t *testing.T) {
	r := NewRegistry(options.NewOptions())

	names := make([]string, 0, len(Builtin))
	for _, info := range Builtin {
		names = append(names, info.Name)
	}

	assert.Equal(t, names, r.Names())
}

func TestNewRegistry_UnknownDriver(t *testing.T) {
	_, err := NewRegistry(options.NewOptions()).Load(context.Background(), "cassandra", "demo_db")
	require.Error(t, err)

	assert.True(t, errors.IsCode(err, code.ErrDriverNotFound))
	assert.Contains(t, err.Error(), "Cannot find driver cassandra")
}

func TestNewRegistry_Disk(t *testing.T) {
	opts := options.NewOptions()
	opts.DiskOptions.Root = t.TempDir()

	d, err := NewRegistry(opts).Load(context.Background(), "disk", "testdb")
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, disk.Name, d.Name())
	require.NoError(t, d.Put(context.Background(), "doc", []byte(`{}`)))
	_, err = os.Stat(filepath.Join(opts.DiskOptions.Root, "testdb", "doc"))
	assert.NoError(t, err)
}

func TestNewRegistry_SQLite(t *testing.T) {
	opts := options.NewOptions()
	opts.SQLiteOptions.Dir = t.TempDir()

	d, err := NewRegistry(opts).Load(context.Background(), "sqlite", "testdb")
	require.NoError(t, err)
	defer d.Close()

	_, err = os.Stat(filepath.Join(opts.SQLiteOptions.Dir, "testdb.db"))
	assert.NoError(t, err)
}

func TestNewRegistry_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	opts := options.NewOptions()
	opts.RedisOptions.Host = mr.Host()
	opts.RedisOptions.Port = port

	d, err := NewRegistry(opts).Load(context.Background(), "redis", "testdb")
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Put(context.Background(), "doc", []byte(`{}`)))
	assert.True(t, mr.Exists("testdb:doc"))
}

func TestNewRegistry_Memory(t *testing.T) {
	d, err := NewRegistry(options.NewOptions()).Load(context.Background(), "memory", "scratch")
	require.NoError(t, err)
	assert.NoError(t, d.Ping(context.Background()))
}

func TestNewRegistry_BackendUnavailable(t *testing.T) {
	opts := options.NewOptions()
	opts.RedisOptions.Host = "127.0.0.1"
	opts.RedisOptions.Port = 1
	opts.RedisOptions.Timeout = 1

	_, err := NewRegistry(opts).Load(context.Background(), "redis", "testdb")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, code.ErrBackend))
}

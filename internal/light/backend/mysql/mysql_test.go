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

package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/light/backend/backendtest"
	"github.com/maxiaolu1981/light/pkg/db"
)

func openSQLite(t *testing.T) backend.Driver {
	t.Helper()

	gdb, err := db.Open(sqlite.Open("file::memory:"), &db.Options{MaxOpenConnections: 1})
	require.NoError(t, err)

	d, err := Open(gdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return d
}

func TestMySQLDialectOnSQLite(t *testing.T) {
	backendtest.Run(t, openSQLite(t))
}

func TestList_PrefixWildcardsAreLiteral(t *testing.T) {
	d := openSQLite(t)
	ctx := context.Background()

	for _, k := range []string{"a_1", "ab1", "a-1"} {
		require.NoError(t, d.Put(ctx, k, []byte(`{}`)))
	}

	keys, err := d.List(ctx, "a_", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_1"}, keys)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "a!_b!%c!!", EscapeLike("a_b%c!"))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

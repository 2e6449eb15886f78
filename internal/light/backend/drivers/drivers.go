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

// Package drivers 把所有内置驱动按启动选项注册到 backend.Registry.
package drivers

import (
	"context"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/light/backend/disk"
	"github.com/maxiaolu1981/light/internal/light/backend/memory"
	"github.com/maxiaolu1981/light/internal/light/backend/mysql"
	"github.com/maxiaolu1981/light/internal/light/backend/postgres"
	"github.com/maxiaolu1981/light/internal/light/backend/redis"
	"github.com/maxiaolu1981/light/internal/light/backend/s3"
	"github.com/maxiaolu1981/light/internal/light/backend/sqlite"
	"github.com/maxiaolu1981/light/internal/light/options"
)

// Info 驱动名称及其 store 的含义.
type Info struct {
	Name  string
	Store string
}

// Builtin 内置驱动，按名称排序.
var Builtin = []Info{
	{Name: disk.Name, Store: "folder under --disk.root"},
	{Name: memory.Name, Store: "namespace label, data lives in the worker process"},
	{Name: mysql.Name, Store: "database name on --mysql.host"},
	{Name: postgres.Name, Store: "database name on --postgres.host"},
	{Name: redis.Name, Store: "key prefix, documents are stored as <store>:<key>"},
	{Name: s3.Name, Store: "bucket name"},
	{Name: sqlite.Name, Store: "database file <store>.db under --sqlite.dir"},
}

// NewRegistry 创建包含全部内置驱动的注册表，工厂在 Load 时才连接后端.
func NewRegistry(opts *options.Options) *backend.Registry {
	r := backend.NewRegistry()

	r.Register(disk.Name, func(_ context.Context, store string) (backend.Driver, error) {
		return disk.New(opts.DiskOptions.Config(), store)
	})
	r.Register(memory.Name, func(_ context.Context, store string) (backend.Driver, error) {
		return memory.New(store), nil
	})
	r.Register(mysql.Name, func(_ context.Context, store string) (backend.Driver, error) {
		return mysql.New(opts.MySQLOptions.NewOptions(store), store)
	})
	r.Register(postgres.Name, func(ctx context.Context, store string) (backend.Driver, error) {
		return postgres.New(ctx, opts.PostgresOptions.Config(), store)
	})
	r.Register(redis.Name, func(ctx context.Context, store string) (backend.Driver, error) {
		return redis.New(ctx, opts.RedisOptions.Config(), store)
	})
	r.Register(s3.Name, func(ctx context.Context, store string) (backend.Driver, error) {
		return s3.New(ctx, opts.S3Options.Config(), store)
	})
	r.Register(sqlite.Name, func(ctx context.Context, store string) (backend.Driver, error) {
		return sqlite.New(ctx, opts.SQLiteOptions.Config(), store)
	})

	return r
}

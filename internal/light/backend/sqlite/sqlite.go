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

// Package sqlite 基于 modernc.org/sqlite 的单文件存储驱动，store 为 Dir 下的数据库文件名.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	nerrors "github.com/maxiaolu1981/cretem/nexuscore/errors"
	_ "modernc.org/sqlite" // 注册 sqlite 驱动

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/pkg/code"
)

// Name 驱动名称.
const Name = "sqlite"

// Config sqlite 驱动配置.
type Config struct {
	// Dir 数据库文件所在目录.
	Dir string
	// BusyTimeout 等待写锁的时间，多个 worker 进程共享同一文件时生效.
	BusyTimeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	"key"      TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

type store struct {
	db   *sql.DB
	path string
}

var _ backend.Driver = (*store)(nil)

// New 打开 Dir/<name>.db，不存在时创建.
func New(ctx context.Context, cfg *Config, name string) (backend.Driver, error) {
	if !backend.ValidKey(name) {
		return nil, nerrors.WithCode(code.ErrInvalidDriverSpec, "invalid sqlite store name %q", name)
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, backend.Wrap(err, "create sqlite directory %s", cfg.Dir)
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	path := filepath.Join(cfg.Dir, name+".db")
	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(" + strconv.FormatInt(busy.Milliseconds(), 10) + ")"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, backend.Wrap(err, "open sqlite database %s", path)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()

		return nil, backend.Wrap(err, "create documents table in %s", path)
	}

	return &store{db: db, path: path}, nil
}

func (s *store) Name() string { return Name }

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := backend.ValidateKey(key); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE "key" = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backend.NotFound(key)
	}
	if err != nil {
		return nil, backend.Wrap(err, "get %s", key)
	}

	return value, nil
}

func (s *store) Put(ctx context.Context, key string, value []byte) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO documents ("key", value, updated_at) VALUES (?, ?, ?)
ON CONFLICT("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return backend.Wrap(err, "put %s", key)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE "key" = ?`, key)
	if err != nil {
		return backend.Wrap(err, "delete %s", key)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return backend.NotFound(key)
	}

	return nil
}

// List 用 substr 比较前缀，避免 LIKE 忽略大小写.
func (s *store) List(ctx context.Context, prefix string, limit int) ([]string, error) {
	if err := backend.ValidatePrefix(prefix); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT "key" FROM documents WHERE substr("key", 1, ?) = ? ORDER BY "key" LIMIT ?`,
		len(prefix), prefix, limit)
	if err != nil {
		return nil, backend.Wrap(err, "list %q", prefix)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, backend.Wrap(err, "scan key")
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.Wrap(err, "list %q", prefix)
	}

	return keys, nil
}

func (s *store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return backend.Wrap(err, "ping sqlite %s", s.path)
	}

	return nil
}

func (s *store) Close() error {
	return s.db.Close()
}

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

// Package postgres 基于 pgxpool 的 PostgreSQL 存储驱动，store 为数据库名.
package postgres

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/pkg/log"
)

// Name 驱动名称.
const Name = "postgres"

// Config 连接配置.
type Config struct {
	Host            string
	Port            int
	Username        string
	Password        string
	SSLMode         string
	MaxConns        int32
	MaxConnLifetime time.Duration
	ConnectTimeout  time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_documents_key_prefix ON documents (key text_pattern_ops);`

// DSN 返回连接 database 的 URL.
func (c *Config) DSN(database string) string {
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + database,
		RawQuery: q.Encode(),
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}

	return u.String()
}

// PoolConfig 解析 DSN 并应用连接池参数.
func (c *Config) PoolConfig(database string) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(c.DSN(database))
	if err != nil {
		return nil, err
	}
	if c.MaxConns > 0 {
		pc.MaxConns = c.MaxConns
	}
	if c.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = c.MaxConnLifetime
	}
	pc.MaxConnIdleTime = 30 * time.Minute

	return pc, nil
}

type store struct {
	pool *pgxpool.Pool
}

var _ backend.Driver = (*store)(nil)

// New 连接 database 并确保 documents 表存在.
func New(ctx context.Context, cfg *Config, database string) (backend.Driver, error) {
	pc, err := cfg.PoolConfig(database)
	if err != nil {
		return nil, backend.Wrap(err, "parse postgres config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, backend.Wrap(err, "create postgres pool")
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()

		return nil, backend.Wrap(err, "create documents table in %s", database)
	}

	log.Infow("postgres pool initialized", "database", database, "max_conns", pc.MaxConns)

	return &store{pool: pool}, nil
}

func (s *store) Name() string { return Name }

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := backend.ValidateKey(key); err != nil {
		return nil, err
	}

	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM documents WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
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

	_, err := s.pool.Exec(ctx, `
INSERT INTO documents (key, value, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, key, value)
	if err != nil {
		return backend.Wrap(err, "put %s", key)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE key = $1`, key)
	if err != nil {
		return backend.Wrap(err, "delete %s", key)
	}
	if tag.RowsAffected() == 0 {
		return backend.NotFound(key)
	}

	return nil
}

func (s *store) List(ctx context.Context, prefix string, limit int) ([]string, error) {
	if err := backend.ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT key FROM documents WHERE left(key, $1) = $2 ORDER BY key COLLATE "C" LIMIT $3`,
		len(prefix), prefix, lim)
	if err != nil {
		return nil, backend.Wrap(err, "list %q", prefix)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, backend.Wrap(err, "list %q", prefix)
	}
	if keys == nil {
		keys = []string{}
	}

	return keys, nil
}

func (s *store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return backend.Wrap(err, "ping postgres")
	}

	return nil
}

func (s *store) Close() error {
	s.pool.Close()

	return nil
}

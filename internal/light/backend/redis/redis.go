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

// Package redis 基于 go-redis 的存储驱动，store 作为键前缀，文档保存在 "<store>:<key>" 下.
package redis

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"
	nerrors "github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/pkg/storage"
)

// Name 驱动名称.
const Name = "redis"

const scanCount = 500

type store struct {
	client redis.UniversalClient
	prefix string
}

var _ backend.Driver = (*store)(nil)

// New 按配置连接 redis，keyPrefix 为 store 名称.
func New(ctx context.Context, cfg *storage.Config, keyPrefix string) (backend.Driver, error) {
	if !backend.ValidKey(keyPrefix) {
		return nil, nerrors.WithCode(code.ErrInvalidDriverSpec, "invalid redis key prefix %q", keyPrefix)
	}

	client := storage.NewRedisClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()

		return nil, backend.Wrap(err, "connect redis")
	}

	return &store{client: client, prefix: keyPrefix + ":"}, nil
}

func (s *store) Name() string { return Name }

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := backend.ValidateKey(key); err != nil {
		return nil, err
	}

	v, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, backend.NotFound(key)
	}
	if err != nil {
		return nil, backend.Wrap(err, "get %s", key)
	}

	return v, nil
}

func (s *store) Put(ctx context.Context, key string, value []byte) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return backend.Wrap(err, "put %s", key)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return backend.Wrap(err, "delete %s", key)
	}
	if n == 0 {
		return backend.NotFound(key)
	}

	return nil
}

// List 用 SCAN 遍历匹配的键，集群模式下遍历所有主节点.
func (s *store) List(ctx context.Context, prefix string, limit int) ([]string, error) {
	if err := backend.ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	pattern := s.prefix + prefix + "*"

	var (
		mu   sync.Mutex
		keys []string
	)
	collect := func(ctx context.Context, c redis.Cmdable) error {
		iter := c.Scan(ctx, 0, pattern, scanCount).Iterator()
		for iter.Next(ctx) {
			key := strings.TrimPrefix(iter.Val(), s.prefix)
			if !backend.ValidKey(key) {
				continue
			}
			mu.Lock()
			keys = append(keys, key)
			mu.Unlock()
		}

		return iter.Err()
	}

	var err error
	if cc, ok := s.client.(*redis.ClusterClient); ok {
		err = cc.ForEachMaster(ctx, func(ctx context.Context, master *redis.Client) error {
			return collect(ctx, master)
		})
	} else {
		err = collect(ctx, s.client)
	}
	if err != nil {
		return nil, backend.Wrap(err, "list %q", prefix)
	}

	sort.Strings(keys)
	keys = dedupe(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	if keys == nil {
		keys = []string{}
	}

	return keys, nil
}

// dedupe 去掉已排序切片中的重复项，SCAN 可能多次返回同一个键.
func dedupe(keys []string) []string {
	if len(keys) < 2 {
		return keys
	}

	out := keys[:1]
	for _, k := range keys[1:] {
		if k != out[len(out)-1] {
			out = append(out, k)
		}
	}

	return out
}

func (s *store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return backend.Wrap(err, "ping redis")
	}

	return nil
}

func (s *store) Close() error {
	return s.client.Close()
}

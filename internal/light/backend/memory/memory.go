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

// Package memory 进程内存储驱动，数据随进程退出丢失，用于开发与测试.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/maxiaolu1981/light/internal/light/backend"
)

// Name 驱动名称.
const Name = "memory"

type store struct {
	mu    sync.RWMutex
	label string
	docs  map[string][]byte
}

var _ backend.Driver = (*store)(nil)

// New 创建内存驱动，label 仅用于日志.
func New(label string) backend.Driver {
	return &store{label: label, docs: make(map[string][]byte)}
}

func (s *store) Name() string { return Name }

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	if err := backend.ValidateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.docs[key]
	if !ok {
		return nil, backend.NotFound(key)
	}

	return append([]byte(nil), v...), nil
}

func (s *store) Put(_ context.Context, key string, value []byte) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	s.docs[key] = append([]byte(nil), value...)
	s.mu.Unlock()

	return nil
}

func (s *store) Delete(_ context.Context, key string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[key]; !ok {
		return backend.NotFound(key)
	}
	delete(s.docs, key)

	return nil
}

func (s *store) List(_ context.Context, prefix string, limit int) ([]string, error) {
	if err := backend.ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	s.mu.RLock()
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	return keys, nil
}

func (s *store) Ping(context.Context) error { return nil }

func (s *store) Close() error { return nil }

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

// Package disk 文件系统存储驱动：每个文档对应 store 目录下的一个文件，写入通过临时文件加重命名完成.
package disk

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/pkg/code"
)

// Name 驱动名称.
const Name = "disk"

const tempPrefix = ".tmp-"

// Config 磁盘驱动配置.
type Config struct {
	// Root 所有 store 目录的父目录.
	Root string
	// FileMode 文档文件权限.
	FileMode os.FileMode
}

type store struct {
	dir  string
	mode os.FileMode
}

var _ backend.Driver = (*store)(nil)

// New 打开 Root/store 目录，不存在时创建.
func New(cfg *Config, name string) (backend.Driver, error) {
	if !backend.ValidKey(name) {
		return nil, errors.WithCode(code.ErrInvalidDriverSpec, "invalid disk store name %q", name)
	}

	dir := filepath.Join(cfg.Root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, backend.Wrap(err, "create store directory %s", dir)
	}

	mode := cfg.FileMode
	if mode == 0 {
		mode = 0o644
	}

	return &store{dir: dir, mode: mode}, nil
}

func (s *store) Name() string { return Name }

func (s *store) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	if err := backend.ValidateKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, backend.NotFound(key)
	}
	if err != nil {
		return nil, backend.Wrap(err, "read %s", key)
	}

	return data, nil
}

func (s *store) Put(_ context.Context, key string, value []byte) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return backend.Wrap(err, "create temp file for %s", key)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()

		return backend.Wrap(err, "write %s", key)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()

		return backend.Wrap(err, "sync %s", key)
	}
	if err := tmp.Close(); err != nil {
		return backend.Wrap(err, "close %s", key)
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		return backend.Wrap(err, "chmod %s", key)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return backend.Wrap(err, "rename %s", key)
	}

	return nil
}

func (s *store) Delete(_ context.Context, key string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return backend.NotFound(key)
	}
	if err != nil {
		return backend.Wrap(err, "delete %s", key)
	}

	return nil
}

// List 依赖 os.ReadDir 按文件名排序的结果.
func (s *store) List(_ context.Context, prefix string, limit int) ([]string, error) {
	if err := backend.ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, backend.Wrap(err, "list %s", s.dir)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, tempPrefix) || !strings.HasPrefix(name, prefix) {
			continue
		}
		keys = append(keys, name)
		if limit > 0 && len(keys) == limit {
			break
		}
	}

	return keys, nil
}

func (s *store) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return backend.Wrap(err, "stat %s", s.dir)
	}
	if !info.IsDir() {
		return errors.WithCode(code.ErrBackend, "%s is not a directory", s.dir)
	}

	return nil
}

func (s *store) Close() error { return nil }

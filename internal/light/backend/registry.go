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

package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/pkg/log"
)

// Factory 按 store 创建驱动实例，store 的含义由驱动决定.
type Factory func(ctx context.Context, store string) (Driver, error)

// Registry 驱动名称到工厂函数的映射.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry 创建空注册表.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register 注册驱动，名称重复时 panic.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		panic(fmt.Sprintf("backend: driver %s registered twice", name))
	}
	r.factories[name] = f
}

// Names 返回已注册的驱动名称，按字母序排列.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Load 创建名为 name 的驱动，未注册时返回 code.ErrDriverNotFound.
func (r *Registry) Load(ctx context.Context, name, store string) (Driver, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.WithCode(code.ErrDriverNotFound, "Cannot find driver %s", name)
	}

	d, err := f(ctx, store)
	if err != nil {
		return nil, errors.WrapC(err, code.ErrBackend, "open driver %s with store %s failed: %s", name, store, err.Error())
	}

	log.Infow("storage driver loaded", log.KeyDriver, name, "store", store)

	return d, nil
}

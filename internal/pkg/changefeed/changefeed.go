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

// Package changefeed 在文档写入成功后发布变更事件.
package changefeed

import (
	"context"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/pkg/log"
)

// 事件类型.
const (
	OpPut    = "put"
	OpDelete = "delete"
)

// Event 一次文档变更.
type Event struct {
	Op     string    `json:"op"`
	Key    string    `json:"key"`
	Driver string    `json:"driver"`
	Store  string    `json:"store"`
	Time   time.Time `json:"time"`
}

// Publisher 事件发布者.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Publish 包装驱动，Put 与 Delete 成功后发布事件；发布失败只记日志，不影响写入结果.
func Publish(d backend.Driver, store string, pub Publisher) backend.Driver {
	return &publishing{Driver: d, store: store, pub: pub, now: time.Now}
}

type publishing struct {
	backend.Driver
	store string
	pub   Publisher
	now   func() time.Time
}

func (p *publishing) Put(ctx context.Context, key string, value []byte) error {
	if err := p.Driver.Put(ctx, key, value); err != nil {
		return err
	}
	p.emit(ctx, OpPut, key)

	return nil
}

func (p *publishing) Delete(ctx context.Context, key string) error {
	if err := p.Driver.Delete(ctx, key); err != nil {
		return err
	}
	p.emit(ctx, OpDelete, key)

	return nil
}

// Close 先关闭驱动再关闭发布者.
func (p *publishing) Close() error {
	var errs []error
	if err := p.Driver.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := p.pub.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.NewAggregate(errs)
}

func (p *publishing) emit(ctx context.Context, op, key string) {
	event := Event{
		Op:     op,
		Key:    key,
		Driver: p.Driver.Name(),
		Store:  p.store,
		Time:   p.now().UTC(),
	}

	if err := p.pub.Publish(ctx, event); err != nil {
		log.L(ctx).Warnw("publish change event failed", "op", op, "key", key, log.KeyDriver, event.Driver, "error", err)
	}
}

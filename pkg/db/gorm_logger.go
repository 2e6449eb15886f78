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

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/maxiaolu1981/light/pkg/log"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

// gormLoggerAdapter 把 gorm 日志转给 pkg/log.
type gormLoggerAdapter struct {
	config logger.Config
}

func newGormLogger(opts *Options) logger.Interface {
	cfg := logger.Config{
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
		SlowThreshold:             opts.SlowQueryThreshold,
		LogLevel:                  toGormLogLevel(opts.LogLevel),
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = defaultSlowQueryThreshold
	}

	return &gormLoggerAdapter{config: cfg}
}

func (g *gormLoggerAdapter) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.config.LogLevel = level

	return &clone
}

func (g *gormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.config.LogLevel < logger.Info {
		return
	}
	log.L(ctx).Infof("[gorm] %s", fmt.Sprintf(msg, args...))
}

func (g *gormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.config.LogLevel < logger.Warn {
		return
	}
	log.L(ctx).Warnf("[gorm] %s", fmt.Sprintf(msg, args...))
}

func (g *gormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.config.LogLevel < logger.Error {
		return
	}
	log.L(ctx).Errorf("[gorm] %s", fmt.Sprintf(msg, args...))
}

func (g *gormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.config.LogLevel == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	if rows < 0 {
		rows = 0
	}

	switch {
	case err != nil && g.config.LogLevel >= logger.Error &&
		!(g.config.IgnoreRecordNotFoundError && errors.Is(err, gorm.ErrRecordNotFound)):
		log.L(ctx).Errorf("[gorm] error=%v elapsed=%s rows=%d sql=%s", err, elapsed, rows, sql)
	case g.config.SlowThreshold > 0 && elapsed > g.config.SlowThreshold && g.config.LogLevel >= logger.Warn:
		log.L(ctx).Warnf("[gorm] slow query >= %s elapsed=%s rows=%d sql=%s", g.config.SlowThreshold, elapsed, rows, sql)
	case g.config.LogLevel >= logger.Info:
		log.L(ctx).Debugf("[gorm] query elapsed=%s rows=%d sql=%s", elapsed, rows, sql)
	}
}

func toGormLogLevel(level int) logger.LogLevel {
	switch level {
	case 0:
		return logger.Silent
	case 1:
		return logger.Error
	case 2:
		return logger.Warn
	default:
		return logger.Info
	}
}

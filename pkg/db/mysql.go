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

// Package db 创建带连接池与查询超时的 gorm 数据库连接.
package db

import (
	"context"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/maxiaolu1981/light/pkg/log"
)

// Options 数据库连接配置.
type Options struct {
	Host                  string
	Username              string
	Password              string
	Database              string
	MaxIdleConnections    int
	MaxOpenConnections    int
	MaxConnectionLifeTime time.Duration
	// LogLevel gorm 日志级别：0 静默，1 错误，2 警告，3 信息
	LogLevel           int
	Logger             logger.Interface
	TablePrefix        string
	Timeout            time.Duration
	SlowQueryThreshold time.Duration
}

// DSN 返回 MySQL 连接串.
func (o *Options) DSN() string {
	cfg := mysqldriver.NewConfig()
	cfg.User = o.Username
	cfg.Passwd = o.Password
	cfg.Net = "tcp"
	cfg.Addr = o.Host
	cfg.DBName = o.Database
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Timeout = o.Timeout
	cfg.ReadTimeout = 30 * time.Second
	cfg.WriteTimeout = 30 * time.Second
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	return cfg.FormatDSN()
}

// New 打开 MySQL 连接.
func New(opts *Options) (*gorm.DB, error) {
	setDefaultOptions(opts)

	return Open(mysql.Open(opts.DSN()), opts)
}

// Open 用给定方言打开连接并配置连接池.
func Open(dialector gorm.Dialector, opts *Options) (*gorm.DB, error) {
	setDefaultOptions(opts)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   opts.Logger,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   opts.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(opts.MaxOpenConnections)
	sqlDB.SetConnMaxLifetime(opts.MaxConnectionLifeTime)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConnections)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	addQueryTimeoutCallbacks(db, opts.Timeout)

	log.Infof("Database connection pool initialized: MaxOpenConns=%d, MaxIdleConns=%d, ConnMaxLifetime=%v",
		opts.MaxOpenConnections, opts.MaxIdleConnections, opts.MaxConnectionLifeTime)

	return db, nil
}

// addQueryTimeoutCallbacks 为没有截止时间的语句加上超时.
func addQueryTimeoutCallbacks(db *gorm.DB, timeout time.Duration) {
	before := func(db *gorm.DB) { setQueryTimeout(db, timeout) }

	_ = db.Callback().Create().Before("gorm:create").Register("query_timeout:create", before)
	_ = db.Callback().Create().After("gorm:create").Register("query_timeout:create_cleanup", cleanupTimeout)
	_ = db.Callback().Query().Before("gorm:query").Register("query_timeout:query", before)
	_ = db.Callback().Query().After("gorm:query").Register("query_timeout:query_cleanup", cleanupTimeout)
	_ = db.Callback().Update().Before("gorm:update").Register("query_timeout:update", before)
	_ = db.Callback().Update().After("gorm:update").Register("query_timeout:update_cleanup", cleanupTimeout)
	_ = db.Callback().Delete().Before("gorm:delete").Register("query_timeout:delete", before)
	_ = db.Callback().Delete().After("gorm:delete").Register("query_timeout:delete_cleanup", cleanupTimeout)
}

func setQueryTimeout(db *gorm.DB, timeout time.Duration) {
	parent := db.Statement.Context
	if parent == nil {
		parent = context.Background()
	}
	if _, ok := parent.Deadline(); ok {
		return
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	db.Statement.Context = ctx
	db.InstanceSet("query_timeout_cancel", cancel)
}

func cleanupTimeout(db *gorm.DB) {
	if cancel, ok := db.InstanceGet("query_timeout_cancel"); ok {
		if c, ok := cancel.(context.CancelFunc); ok {
			c()
		}
		db.InstanceSet("query_timeout_cancel", nil)
	}
}

func setDefaultOptions(opts *Options) {
	if opts.MaxOpenConnections <= 0 {
		opts.MaxOpenConnections = 100
	}
	if opts.MaxIdleConnections <= 0 {
		opts.MaxIdleConnections = 10
	}
	if opts.MaxConnectionLifeTime <= 0 {
		opts.MaxConnectionLifeTime = time.Hour
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = newGormLogger(opts)
	}
}

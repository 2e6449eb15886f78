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

// Package mysql 基于 gorm 的 MySQL 存储驱动，store 为数据库名.
package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/pkg/db"
)

// Name 驱动名称.
const Name = "mysql"

const tableOptions = "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// document documents 表的一行.
type document struct {
	Key       string    `gorm:"column:doc_key;primaryKey;type:varchar(255)"`
	Value     []byte    `gorm:"column:value;type:longblob;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 固定表名.
func (document) TableName() string { return "documents" }

type store struct {
	db *gorm.DB
}

var _ backend.Driver = (*store)(nil)

// New 连接 opts 指定的 MySQL 实例，database 覆盖 opts.Database.
func New(opts *db.Options, database string) (backend.Driver, error) {
	o := *opts
	o.Database = database

	gdb, err := db.New(&o)
	if err != nil {
		return nil, backend.Wrap(err, "connect mysql database %s", database)
	}

	return Open(gdb)
}

// Open 在已有连接上建表并返回驱动.
func Open(gdb *gorm.DB) (backend.Driver, error) {
	migrator := gdb
	if gdb.Dialector.Name() == "mysql" {
		migrator = gdb.Set("gorm:table_options", tableOptions)
	}
	if err := migrator.AutoMigrate(&document{}); err != nil {
		return nil, backend.Wrap(err, "migrate documents table")
	}

	return &store{db: gdb}, nil
}

func (s *store) Name() string { return Name }

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := backend.ValidateKey(key); err != nil {
		return nil, err
	}

	var doc document
	err := s.db.WithContext(ctx).Where("doc_key = ?", key).Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, backend.NotFound(key)
		}

		return nil, backend.Wrap(err, "get %s", key)
	}

	return doc.Value, nil
}

func (s *store) Put(ctx context.Context, key string, value []byte) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	doc := document{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return backend.Wrap(err, "put %s", key)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("doc_key = ?", key).Delete(&document{})
	if result.Error != nil {
		return backend.Wrap(result.Error, "delete %s", key)
	}
	if result.RowsAffected == 0 {
		return backend.NotFound(key)
	}

	return nil
}

func (s *store) List(ctx context.Context, prefix string, limit int) ([]string, error) {
	if err := backend.ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&document{}).Order("doc_key")
	if prefix != "" {
		q = q.Where("doc_key LIKE ? ESCAPE '!'", EscapeLike(prefix)+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	keys := []string{}
	if err := q.Pluck("doc_key", &keys).Error; err != nil {
		return nil, backend.Wrap(err, "list %q", prefix)
	}

	return keys, nil
}

func (s *store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return backend.Wrap(err, "get sql.DB")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return backend.Wrap(err, "ping mysql")
	}

	return nil
}

func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return backend.Wrap(err, "get sql.DB")
	}

	return sqlDB.Close()
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// EscapeLike 转义 LIKE 模式中的通配符，转义字符为 '!'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

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

/*
Package backend 定义 Light 的存储驱动接口与驱动注册表.

所有驱动遵循相同语义：
  - Get/Delete 访问不存在的键返回 code.ErrDocumentNotFound；
  - Put 插入或覆盖；
  - List 按字节序升序返回指定前缀的键，limit <= 0 表示不限；
  - 非法键返回 code.ErrInvalidKey。
*/
package backend

import (
	"context"
	"regexp"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/pkg/code"
)

// Driver 存储驱动.
type Driver interface {
	// Name 驱动名称，如 disk、mysql.
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string, limit int) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// MaxKeyLength 键的最大长度.
const MaxKeyLength = 255

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,254}$`)

// ValidKey 判断键是否合法.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// ValidateKey 键不合法时返回 code.ErrInvalidKey.
func ValidateKey(key string) error {
	if !ValidKey(key) {
		return errors.WithCode(code.ErrInvalidKey, "invalid key %q", key)
	}

	return nil
}

// ValidatePrefix 前缀可以为空，非空时必须是合法键的前缀.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}

	return ValidateKey(prefix)
}

// NotFound 返回键不存在的错误.
func NotFound(key string) error {
	return errors.WithCode(code.ErrDocumentNotFound, "document %s not found", key)
}

// IsNotFound 判断错误是否表示键不存在.
func IsNotFound(err error) bool {
	return errors.IsCode(err, code.ErrDocumentNotFound)
}

// Wrap 把底层存储错误包装为 code.ErrBackend.
func Wrap(err error, format string, args ...interface{}) error {
	return errors.WrapC(err, code.ErrBackend, format, args...)
}

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

// Package document 实现 /v1/documents 的增删改查.
package document

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/maxiaolu1981/light/internal/light/backend"
)

// MaxListLimit 单次列表返回的最大键数.
const MaxListLimit = 1000

// DocumentController 文档处理器，所有请求直接访问传入的驱动.
type DocumentController struct {
	driver backend.Driver
}

var registerOnce sync.Once

// NewDocumentController 创建处理器并注册 documentkey 校验标签.
func NewDocumentController(d backend.Driver) *DocumentController {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("documentkey", func(fl validator.FieldLevel) bool {
				return backend.ValidKey(fl.Field().String())
			})
		}
	})

	return &DocumentController{driver: d}
}

type keyURI struct {
	Key string `uri:"key" binding:"required,documentkey"`
}

type listQuery struct {
	Prefix string `form:"prefix"`
	Limit  int    `form:"limit"  binding:"min=0,max=1000"`
}

// ListResult 列表响应.
type ListResult struct {
	TotalCount int      `json:"totalCount"`
	Keys       []string `json:"keys"`
}

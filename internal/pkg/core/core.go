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

// Package core 统一 HTTP 响应格式.
package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/pkg/log"
)

// ErrResponse 错误响应.
type ErrResponse struct {
	// Code 业务错误码.
	Code int `json:"code"`

	// Message 对外展示的错误信息.
	Message string `json:"message"`

	// Reference 参考文档，可为空.
	Reference string `json:"reference,omitempty"`
}

// SuccessResponse 成功响应.
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// WriteResponse 写出响应：err 非空时按错误码映射 HTTP 状态，否则返回 200 与数据.
func WriteResponse(c *gin.Context, err error, data interface{}) {
	if err != nil {
		log.L(c).Errorf("%#+v", err)
		coder := errors.ParseCoderByErr(err)
		c.JSON(coder.HTTPStatus(), ErrResponse{
			Code:      coder.Code(),
			Message:   coder.String(),
			Reference: coder.Reference(),
		})

		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Code:    code.ErrSuccess,
		Message: "OK",
		Data:    data,
	})
}

// WriteDeleteSuccess DELETE 成功返回 204，无响应体.
func WriteDeleteSuccess(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

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

// Package code 定义 Light 的业务错误码，并在初始化时注册到 errors 包.
package code

import (
	"fmt"
	"net/http"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
)

// ErrCode 实现 errors.Coder 接口.
type ErrCode struct {
	// C 业务错误码.
	C int

	// HTTP 对应的 HTTP 状态码.
	HTTP int

	// Ext 对外展示的错误信息.
	Ext string

	// Ref 参考文档.
	Ref string
}

var _ errors.Coder = &ErrCode{}

// Code returns the integer code of ErrCode.
func (coder ErrCode) Code() int {
	return coder.C
}

// String returns the external error message.
func (coder ErrCode) String() string {
	return coder.Ext
}

// Reference returns the reference document.
func (coder ErrCode) Reference() string {
	return coder.Ref
}

// HTTPStatus returns the associated HTTP status code, 500 when unset.
func (coder ErrCode) HTTPStatus() int {
	if coder.HTTP == 0 {
		return http.StatusInternalServerError
	}

	return coder.HTTP
}

// register 注册错误码，HTTP 状态码必须落在 100~599.
func register(code int, httpStatus int, message string, refs ...string) {
	if httpStatus < 100 || httpStatus > 599 {
		panic(fmt.Sprintf("HTTP 状态码 %d 不符合通用规则（必须在 100~599 之间）", httpStatus))
	}

	var reference string
	if len(refs) > 0 {
		reference = refs[0]
	}

	errors.MustRegister(&ErrCode{
		C:    code,
		HTTP: httpStatus,
		Ext:  message,
		Ref:  reference,
	})
}

func init() {
	register(ErrSuccess, http.StatusOK, "OK")
	register(ErrUnknown, http.StatusInternalServerError, "Internal server error")
	register(ErrBind, http.StatusBadRequest, "Error occurred while binding the request body to the struct")
	register(ErrValidation, http.StatusUnprocessableEntity, "Validation failed")
	register(ErrPageNotFound, http.StatusNotFound, "Page not found")
	register(ErrMissingHeader, http.StatusUnauthorized, "The `Authorization` header was empty")
	register(ErrTokenInvalid, http.StatusUnauthorized, "Token invalid")

	register(ErrDriverNotFound, http.StatusInternalServerError, "Storage driver not found")
	register(ErrInvalidDriverSpec, http.StatusBadRequest, "Driver spec must be in the form driver:store")
	register(ErrDocumentNotFound, http.StatusNotFound, "Document not found")
	register(ErrInvalidKey, http.StatusBadRequest, "Invalid document key")
	register(ErrInvalidDocument, http.StatusBadRequest, "Document body must be valid JSON")
	register(ErrBackend, http.StatusInternalServerError, "Storage backend error")
	register(ErrPrefork, http.StatusInternalServerError, "Worker process failed")
}

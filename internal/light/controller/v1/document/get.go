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

package document

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/internal/pkg/core"
	"github.com/maxiaolu1981/light/pkg/log"
)

// Get 返回文档内容，data 即存入的 JSON.
func (d *DocumentController) Get(c *gin.Context) {
	var uri keyURI
	if err := c.ShouldBindUri(&uri); err != nil {
		core.WriteResponse(c, errors.WithCode(code.ErrInvalidKey, "%s", err.Error()), nil)

		return
	}

	value, err := d.driver.Get(c.Request.Context(), uri.Key)
	if err != nil {
		core.WriteResponse(c, err, nil)

		return
	}

	// 存储中可能有其他写入者留下的非 JSON 内容.
	if !json.Valid(value) {
		log.L(c).Warnw("stored document is not valid JSON", "key", uri.Key, log.KeyDriver, d.driver.Name())
		core.WriteResponse(c, errors.WithCode(code.ErrBackend, "document %s is not valid JSON", uri.Key), nil)

		return
	}

	core.WriteResponse(c, nil, json.RawMessage(value))
}

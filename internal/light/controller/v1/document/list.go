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
	"github.com/gin-gonic/gin"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/internal/pkg/core"
)

// List 按前缀列出键；limit 为 0 时取 MaxListLimit.
func (d *DocumentController) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		core.WriteResponse(c, errors.WithCode(code.ErrValidation, "%s", err.Error()), nil)

		return
	}
	if err := backend.ValidatePrefix(q.Prefix); err != nil {
		core.WriteResponse(c, err, nil)

		return
	}

	limit := q.Limit
	if limit == 0 {
		limit = MaxListLimit
	}

	keys, err := d.driver.List(c.Request.Context(), q.Prefix, limit)
	if err != nil {
		core.WriteResponse(c, err, nil)

		return
	}
	if keys == nil {
		keys = []string{}
	}

	core.WriteResponse(c, nil, ListResult{TotalCount: len(keys), Keys: keys})
}

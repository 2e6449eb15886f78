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

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/internal/pkg/core"
	"github.com/maxiaolu1981/light/pkg/log"
)

func (d *DocumentController) Delete(c *gin.Context) {
	var uri keyURI
	if err := c.ShouldBindUri(&uri); err != nil {
		core.WriteResponse(c, errors.WithCode(code.ErrInvalidKey, "%s", err.Error()), nil)

		return
	}

	if err := d.driver.Delete(c.Request.Context(), uri.Key); err != nil {
		core.WriteResponse(c, err, nil)

		return
	}

	log.L(c).Infow("document deleted", "key", uri.Key)
	core.WriteDeleteSuccess(c)
}

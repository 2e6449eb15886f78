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

package light

import (
	"github.com/gin-gonic/gin"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/light/controller/v1/document"
	"github.com/maxiaolu1981/light/internal/pkg/middleware"
)

// installController 注册 /v1/documents 路由；authKey 非空时写操作需要 Bearer 令牌.
func installController(g *gin.Engine, d backend.Driver, authKey string) *gin.Engine {
	auth := middleware.Auth(authKey)

	v1 := g.Group("/v1")
	{
		documentv1 := v1.Group("/documents")
		{
			documentController := document.NewDocumentController(d)

			documentv1.GET("", documentController.List)
			documentv1.GET("/:key", documentController.Get)
			documentv1.PUT("/:key", auth, documentController.Put)
			documentv1.DELETE("/:key", auth, documentController.Delete)
		}
	}

	return g
}

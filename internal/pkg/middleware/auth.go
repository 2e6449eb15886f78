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

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/internal/pkg/core"
)

// KeySubject 通过校验的令牌主体在 gin 上下文中的键.
const KeySubject = "subject"

// Auth 校验 HS256 Bearer 令牌，key 为空时放行所有请求.
func Auth(key string) gin.HandlerFunc {
	secret := []byte(key)

	return func(c *gin.Context) {
		if key == "" {
			c.Next()

			return
		}

		claims, err := ValidateToken(c.Request.Header.Get("Authorization"), secret)
		if err != nil {
			core.WriteResponse(c, err, nil)
			c.Abort()

			return
		}

		c.Set(KeySubject, claims.Subject)
		c.Next()
	}
}

// ValidateToken 解析 Authorization 头中的令牌并校验签名与有效期.
func ValidateToken(header string, secret []byte) (*jwt.RegisteredClaims, error) {
	if header == "" {
		return nil, errors.WithCode(code.ErrMissingHeader, "Authorization header is not present")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, errors.WithCode(code.ErrTokenInvalid, "invalid authorization header format")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.WithCode(code.ErrTokenInvalid, "unsupported signing method: %v", token.Header["alg"])
		}

		return secret, nil
	})
	if err != nil {
		return nil, errors.WrapC(err, code.ErrTokenInvalid, "token invalid")
	}

	return claims, nil
}

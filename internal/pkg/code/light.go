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

package code

// Light 存储与启动错误（1200xx）
const (
	// ErrDriverNotFound - 500: Storage driver not found.
	ErrDriverNotFound int = iota + 120001

	// ErrInvalidDriverSpec - 400: Driver spec must be in the form driver:store.
	ErrInvalidDriverSpec

	// ErrDocumentNotFound - 404: Document not found.
	ErrDocumentNotFound

	// ErrInvalidKey - 400: Invalid document key.
	ErrInvalidKey

	// ErrInvalidDocument - 400: Document body must be valid JSON.
	ErrInvalidDocument

	// ErrBackend - 500: Storage backend error.
	ErrBackend

	// ErrPrefork - 500: Worker process failed.
	ErrPrefork
)

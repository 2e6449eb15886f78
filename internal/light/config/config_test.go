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

package config

import (
	"testing"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/internal/light/options"
	"github.com/maxiaolu1981/light/internal/pkg/code"
)

func TestCreateConfigFromOptions(t *testing.T) {
	opts := options.NewOptions()
	opts.InsecureServing.Host = "0.0.0.0"
	opts.InsecureServing.Port = "9000"
	opts.Worker.Workers = 3
	opts.Driver.Spec = "disk:testdb"

	cfg, err := CreateConfigFromOptions(opts)
	require.NoError(t, err)

	assert.Equal(t, LaunchOptions{Bind: "0.0.0.0:9000", Workers: 3, DBDriver: "disk", DBStore: "testdb"}, cfg.Launch)
	assert.Same(t, opts, cfg.Options)
}

func TestCreateConfigFromOptions_FirstColonSplits(t *testing.T) {
	opts := options.NewOptions()
	opts.Driver.Spec = "postgres:host=db:5432"

	cfg, err := CreateConfigFromOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Launch.DBDriver)
	assert.Equal(t, "host=db:5432", cfg.Launch.DBStore)
}

func TestCreateConfigFromOptions_InvalidSpec(t *testing.T) {
	for _, spec := range []string{"disk", ":store", "disk:", ""} {
		opts := options.NewOptions()
		opts.Driver.Spec = spec

		_, err := CreateConfigFromOptions(opts)
		require.Error(t, err, spec)
		assert.True(t, errors.IsCode(err, code.ErrInvalidDriverSpec), spec)
	}
}

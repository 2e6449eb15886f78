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

package app

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliflag "github.com/maxiaolu1981/light/pkg/cli/flag"
)

type testOptions struct {
	Greeting  string `mapstructure:"greeting"`
	Count     int    `mapstructure:"count"`
	completed bool
}

func (o *testOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("test")
	fs.StringVar(&o.Greeting, "greeting", "hello", "greeting text")
	fs.IntVar(&o.Count, "count", 1, "repeat count")

	return fss
}

func (o *testOptions) Validate() []error {
	var errs []error
	if o.Count < 1 {
		errs = append(errs, fmt.Errorf("--count must be at least 1, got %d", o.Count))
	}

	return errs
}

func (o *testOptions) Complete() error {
	o.completed = true

	return nil
}

func TestApp_RunFuncReceivesParsedOptions(t *testing.T) {
	opts := &testOptions{}
	var called string
	a := NewApp("Test Server", "test-app",
		WithOptions(opts),
		WithSilence(),
		WithDefaultValidArgs(),
		WithRunFunc(func(basename string) error {
			called = basename

			return nil
		}),
	)

	cmd := a.Command()
	cmd.SetArgs([]string{"--greeting=hi", "--count=3"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "test-app", called)
	assert.Equal(t, "hi", opts.Greeting)
	assert.Equal(t, 3, opts.Count)
	assert.True(t, opts.completed)
}

func TestApp_ValidationErrorStopsRun(t *testing.T) {
	opts := &testOptions{}
	called := false
	a := NewApp("Test Server", "test-app",
		WithOptions(opts),
		WithSilence(),
		WithRunFunc(func(string) error {
			called = true

			return nil
		}),
	)

	cmd := a.Command()
	cmd.SetArgs([]string{"--count=0"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--count must be at least 1")
	assert.False(t, called)
}

func TestApp_RejectsPositionalArgs(t *testing.T) {
	a := NewApp("Test Server", "test-app",
		WithOptions(&testOptions{}),
		WithSilence(),
		WithDefaultValidArgs(),
		WithRunFunc(func(string) error { return nil }),
	)

	cmd := a.Command()
	cmd.SetArgs([]string{"unexpected"})
	assert.Error(t, cmd.Execute())
}

func TestApp_GlobalFlags(t *testing.T) {
	a := NewApp("Test Server", "test-app", WithOptions(&testOptions{}), WithRunFunc(func(string) error { return nil }))
	fs := a.Command().Flags()

	assert.NotNil(t, fs.Lookup("version"))
	assert.NotNil(t, fs.Lookup("config"))
	assert.NotNil(t, fs.Lookup("help"))
	assert.NotNil(t, fs.Lookup("greeting"))
}

func TestApp_Subcommand(t *testing.T) {
	var got []string
	sub := NewCommand("list", "List things.", WithCommandRunFunc(func(args []string) error {
		got = args

		return nil
	}))
	a := NewApp("Test Server", "test-app", WithNoConfig(), WithSilence(), WithCommands(sub),
		WithRunFunc(func(string) error { return nil }))

	cmd := a.Command()
	cmd.SetArgs([]string{"list", "a", "b"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestApp_HelpPrintsSections(t *testing.T) {
	a := NewApp("Test Server", "test-app", WithOptions(&testOptions{}), WithDescription("A test server."),
		WithRunFunc(func(string) error { return nil }))

	var buf bytes.Buffer
	cmd := a.Command()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "A test server.")
	assert.Contains(t, buf.String(), "Test flags:")
	assert.Contains(t, buf.String(), "Global flags:")
}

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

package options

import (
	"testing"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/internal/pkg/code"
	"github.com/maxiaolu1981/light/internal/pkg/server"
)

func TestNumberOfWorkers(t *testing.T) {
	for cpus := 1; cpus <= 64; cpus++ {
		assert.Equal(t, 2*cpus+1, NumberOfWorkers(cpus))
	}
	assert.GreaterOrEqual(t, DefaultWorkers(), 3)
}

func TestParseDriverSpec(t *testing.T) {
	tests := []struct {
		spec   string
		driver string
		store  string
		ok     bool
	}{
		{spec: "disk:demo_db", driver: "disk", store: "demo_db", ok: true},
		{spec: "mysql:a:b", driver: "mysql", store: "a:b", ok: true},
		{spec: "redis:cache:", driver: "redis", store: "cache:", ok: true},
		{spec: "disk"},
		{spec: ""},
		{spec: ":demo_db"},
		{spec: "disk:"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			driver, store, err := ParseDriverSpec(tt.spec)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, code.ErrInvalidDriverSpec))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.store, store)
		})
	}
}

func TestLaunchFlags(t *testing.T) {
	serving := NewInsecureServingOptions()
	workers := NewWorkerOptions()
	driver := NewDriverOptions()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	serving.AddFlags(fs)
	workers.AddFlags(fs)
	driver.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"-D", "disk:testdb", "-H", "0.0.0.0", "-P", "9000", "-W", "3"}))

	assert.Equal(t, "0.0.0.0:9000", serving.Bind())
	assert.Equal(t, 3, workers.Workers)
	assert.Equal(t, "disk:testdb", driver.Spec)
	assert.Empty(t, serving.Validate())
	assert.Empty(t, workers.Validate())
	assert.Empty(t, driver.Validate())
}

func TestLaunchDefaults(t *testing.T) {
	assert.Equal(t, "localhost:8080", NewInsecureServingOptions().Bind())
	assert.Equal(t, DefaultWorkers(), NewWorkerOptions().Workers)
	assert.Equal(t, "disk:demo_db", NewDriverOptions().Spec)
}

func TestInsecureServingOptions_Validate(t *testing.T) {
	tests := []struct {
		host string
		port string
		errs int
	}{
		{host: "localhost", port: "8080"},
		{host: "127.0.0.1", port: "0"},
		{host: "::1", port: "8080", errs: 1},
		{host: "localhost", port: "65535"},
		{host: "localhost", port: "65536", errs: 1},
		{host: "localhost", port: "-1", errs: 1},
		{host: "localhost", port: "http", errs: 1},
		{host: "", port: "http", errs: 2},
	}

	for _, tt := range tests {
		o := &InsecureServingOptions{Host: tt.host, Port: tt.port}
		assert.Len(t, o.Validate(), tt.errs, "%s:%s", tt.host, tt.port)
	}
}

func TestWorkerOptions_Validate(t *testing.T) {
	assert.Empty(t, (&WorkerOptions{Workers: 1}).Validate())
	errs := (&WorkerOptions{Workers: 0}).Validate()
	require.Len(t, errs, 1)
	assert.True(t, errors.IsCode(errs[0], code.ErrValidation))
}

func TestApplyTo(t *testing.T) {
	c := server.NewConfig()

	require.NoError(t, (&InsecureServingOptions{Host: "0.0.0.0", Port: "9000"}).ApplyTo(c))
	require.NoError(t, (&WorkerOptions{Workers: 3}).ApplyTo(c))
	require.NoError(t, (&FeatureOptions{EnableMetrics: true, EnableProfiling: true}).ApplyTo(c))

	run := NewServerRunOptions()
	run.MaxQPS = 50
	require.NoError(t, run.ApplyTo(c))

	assert.Equal(t, "0.0.0.0:9000", c.InsecureServing.Address)
	assert.Equal(t, 3, c.Workers)
	assert.True(t, c.EnableMetrics)
	assert.True(t, c.EnableProfiling)
	assert.Equal(t, 50.0, c.MaxQPS)
	assert.Equal(t, run.Middlewares, c.Middlewares)
}

func TestServerRunOptions_Validate(t *testing.T) {
	o := NewServerRunOptions()
	assert.Empty(t, o.Validate())

	o.Mode = "production"
	o.Middlewares = []string{"logger", "gzip"}
	o.MaxQPS = 10
	o.Burst = 0
	o.ShutdownTimeout = 0
	assert.Len(t, o.Validate(), 4)
}

func TestBackendOptions_Validate(t *testing.T) {
	assert.Empty(t, NewDiskOptions().Validate())
	assert.Len(t, (&DiskOptions{Root: "", FileMode: 0o4755}).Validate(), 2)

	assert.Empty(t, NewSQLiteOptions().Validate())
	assert.Len(t, (&SQLiteOptions{BusyTimeout: -time.Second}).Validate(), 2)

	assert.Empty(t, NewMySQLOptions().Validate())
	assert.Len(t, (&MySQLOptions{LogLevel: 4}).Validate(), 2)

	assert.Empty(t, NewPostgresOptions().Validate())
	pg := NewPostgresOptions()
	pg.SSLMode = "on"
	pg.Port = 0
	assert.Len(t, pg.Validate(), 2)

	assert.Empty(t, NewRedisOptions().Validate())
	assert.Len(t, (&RedisOptions{EnableCluster: true, SSLInsecureSkipVerify: true}).Validate(), 3)

	assert.Empty(t, NewS3Options().Validate())
	assert.Len(t, (&S3Options{AccessKeyID: "only-id"}).Validate(), 1)

	assert.Empty(t, NewJwtOptions().Validate())
	assert.Len(t, (&JwtOptions{Key: "abc"}).Validate(), 1)
}

func TestKafkaOptions_Validate(t *testing.T) {
	k := NewKafkaOptions()
	assert.False(t, k.Enabled())
	k.Topic = ""
	assert.Empty(t, k.Validate())

	k.Brokers = []string{"127.0.0.1:9092"}
	assert.True(t, k.Enabled())
	k.RequiredAcks = 2
	assert.Len(t, k.Validate(), 2)
}

func TestBackendOptions_Config(t *testing.T) {
	assert.Equal(t, "data", NewDiskOptions().Config().Root)
	assert.EqualValues(t, 0o644, NewDiskOptions().Config().FileMode)
	assert.Equal(t, 5*time.Second, NewSQLiteOptions().Config().BusyTimeout)
	assert.Equal(t, "demo_db", NewMySQLOptions().NewOptions("demo_db").Database)
	assert.Equal(t, 5432, NewPostgresOptions().Config().Port)
	assert.Equal(t, 6379, NewRedisOptions().Config().Port)
	assert.True(t, NewS3Options().Config().UseSSL)
}

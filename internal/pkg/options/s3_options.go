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
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/validation/field"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/light/internal/light/backend/s3"
)

// S3Options 对象存储连接参数，bucket 来自 --driver s3:<bucket>.
type S3Options struct {
	Endpoint        string `json:"endpoint"          mapstructure:"endpoint"`
	Region          string `json:"region"            mapstructure:"region"`
	AccessKeyID     string `json:"access-key-id"     mapstructure:"access-key-id"`
	SecretAccessKey string `json:"-"                 mapstructure:"secret-access-key"`
	UseSSL          bool   `json:"use-ssl"           mapstructure:"use-ssl"`
	ForcePathStyle  bool   `json:"force-path-style"  mapstructure:"force-path-style"`
}

func NewS3Options() *S3Options {
	return &S3Options{
		Region: "us-east-1",
		UseSSL: true,
	}
}

func (o *S3Options) Validate() []error {
	errs := field.ErrorList{}
	path := field.NewPath("s3")

	if (o.AccessKeyID == "") != (o.SecretAccessKey == "") {
		errs = append(errs, field.Invalid(path.Child("access-key-id"), o.AccessKeyID,
			"access-key-id与secret-access-key需同时配置或同时不配置"))
	}

	agg := errs.ToAggregate()
	if agg == nil {
		return nil
	}

	return agg.Errors()
}

func (o *S3Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Endpoint, "s3.endpoint", o.Endpoint, ""+
		"S3 compatible endpoint host:port. Empty means the AWS default endpoint.")
	fs.StringVar(&o.Region, "s3.region", o.Region, "Bucket region.")
	fs.StringVar(&o.AccessKeyID, "s3.access-key-id", o.AccessKeyID, ""+
		"Static access key. Empty falls back to the default AWS credential chain.")
	fs.StringVar(&o.SecretAccessKey, "s3.secret-access-key", o.SecretAccessKey, "Static secret key.")
	fs.BoolVar(&o.UseSSL, "s3.use-ssl", o.UseSSL, "Use https when --s3.endpoint is set.")
	fs.BoolVar(&o.ForcePathStyle, "s3.force-path-style", o.ForcePathStyle, ""+
		"Address buckets as endpoint/bucket instead of bucket.endpoint, as MinIO requires.")
}

func (o *S3Options) Config() *s3.Config {
	return &s3.Config{
		Endpoint:        o.Endpoint,
		Region:          o.Region,
		AccessKeyID:     o.AccessKeyID,
		SecretAccessKey: o.SecretAccessKey,
		UseSSL:          o.UseSSL,
		ForcePathStyle:  o.ForcePathStyle,
	}
}

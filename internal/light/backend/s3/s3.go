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

// Package s3 基于 aws-sdk-go-v2 的对象存储驱动，store 为桶名，每个文档对应一个对象.
package s3

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/pkg/log"
)

// Name 驱动名称.
const Name = "s3"

const maxPageKeys = 1000

// Config S3 连接配置，Endpoint 为空时使用 AWS 默认地址.
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	ForcePathStyle  bool
}

// API 驱动用到的 S3 操作，*s3.Client 实现了该接口.
type API interface {
	s3.HeadBucketAPIClient
	s3.HeadObjectAPIClient
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewClient 按配置创建 S3 客户端.
func NewClient(ctx context.Context, cfg *Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			scheme := "https"
			if !cfg.UseSSL {
				scheme = "http"
			}
			o.BaseEndpoint = aws.String(scheme + "://" + cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

type store struct {
	api    API
	bucket string
}

var _ backend.Driver = (*store)(nil)

// New 创建客户端并确认桶可访问.
func New(ctx context.Context, cfg *Config, bucket string) (backend.Driver, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, backend.Wrap(err, "load aws config")
	}

	d := NewWithAPI(client, bucket)
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}

	log.Infow("s3 driver initialized", "endpoint", cfg.Endpoint, "bucket", bucket, "path_style", cfg.ForcePathStyle)

	return d, nil
}

// NewWithAPI 用给定的 API 实现创建驱动.
func NewWithAPI(api API, bucket string) backend.Driver {
	return &store{api: api, bucket: bucket}
}

func (s *store) Name() string { return Name }

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := backend.ValidateKey(key); err != nil {
		return nil, err
	}

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, backend.NotFound(key)
		}

		return nil, backend.Wrap(err, "get object %s", key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, backend.Wrap(err, "read object %s", key)
	}

	return data, nil
}

func (s *store) Put(ctx context.Context, key string, value []byte) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return backend.Wrap(err, "put object %s", key)
	}

	return nil
}

// Delete 先 HeadObject 判断是否存在，S3 删除不存在的对象不会报错.
func (s *store) Delete(ctx context.Context, key string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return backend.NotFound(key)
		}

		return backend.Wrap(err, "head object %s", key)
	}

	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return backend.Wrap(err, "delete object %s", key)
	}

	return nil
}

func (s *store) List(ctx context.Context, prefix string, limit int) ([]string, error) {
	if err := backend.ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	pageSize := int32(maxPageKeys)
	if limit > 0 && limit < maxPageKeys {
		pageSize = int32(limit)
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(pageSize),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	keys := []string{}
	paginator := s3.NewListObjectsV2Paginator(s.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, backend.Wrap(err, "list objects %q", prefix)
		}
		for _, obj := range page.Contents {
			// 桶里可能有其他程序写入的对象，名称不合法的无法通过 Get 读取，跳过.
			key := aws.ToString(obj.Key)
			if !backend.ValidKey(key) {
				continue
			}
			keys = append(keys, key)
			if limit > 0 && len(keys) == limit {
				return keys, nil
			}
		}
	}

	return keys, nil
}

func (s *store) Ping(ctx context.Context) error {
	if _, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return backend.Wrap(err, "head bucket %s", s.bucket)
	}

	return nil
}

func (s *store) Close() error { return nil }

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound

	return errors.As(err, &nsk) || errors.As(err, &nf)
}

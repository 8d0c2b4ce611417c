// Package media S3/MinIO 后端实现.
// 若配置的 bucket 不存在则尝试创建.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/scenevault/pkg/configs"
	nlog "github.com/yeisme/scenevault/pkg/log"
)

// init 注册 S3 工厂.
func init() {
	RegisterFactory(configs.StorageS3, s3Factory)
}

// s3Store 基于 MinIO 客户端的对象存储.
type s3Store struct {
	cli    *minio.Client
	bucket string
	prefix string
}

func s3Factory(ctx context.Context, cfg *configs.StorageConfig) (Store, error) {
	s3 := cfg.S3

	endpoint := s3.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			s3.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3.AccessKeyID, s3.SecretAccessKey, ""),
		Secure: s3.UseSSL,
		Region: s3.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("scenevault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, s3.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", s3.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, s3.BucketName, minio.MakeBucketOptions{Region: s3.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", s3.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", s3.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", s3.Endpoint).Str("bucket", s3.BucketName).Msg("s3 media store connected")

	return &s3Store{cli: cli, bucket: s3.BucketName, prefix: cfg.Prefix}, nil
}

func (s *s3Store) Save(ctx context.Context, data []byte, mime string) (string, error) {
	ref := newRef(s.prefix, mime)

	_, err := s.cli.PutObject(ctx, s.bucket, ref, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: mime})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", ref, err)
	}

	return ref, nil
}

func (s *s3Store) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	obj, err := s.cli.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", ref, err)
	}

	// GetObject 是惰性的，Stat 确认对象存在
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("stat object %s: %w", ref, err)
	}

	return obj, nil
}

func (s *s3Store) Remove(ctx context.Context, ref string) error {
	err := s.cli.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}

		return fmt.Errorf("remove object %s: %w", ref, err)
	}

	return nil
}

func (s *s3Store) List(ctx context.Context) ([]Object, error) {
	prefix := s.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var objs []Object

	for info := range s.cli.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects: %w", info.Err)
		}

		objs = append(objs, Object{
			Ref:     info.Key,
			Size:    info.Size,
			ModTime: info.LastModified,
		})
	}

	return objs, nil
}

func (s *s3Store) HealthCheck(ctx context.Context) error {
	_, err := s.cli.BucketExists(ctx, s.bucket)
	return err
}

func (s *s3Store) Close() error { return nil }

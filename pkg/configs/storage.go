package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// StorageBackend 图片存储后端类型.
type StorageBackend string

const (
	// StorageLocal 本地文件系统后端.
	StorageLocal StorageBackend = "local"
	// StorageS3 MinIO/S3 对象存储后端.
	StorageS3 StorageBackend = "s3"
)

const (
	DefaultStorageBackend    = StorageLocal     // 默认使用本地文件系统
	DefaultStorageRoot       = "storage"        // 本地存储根目录
	DefaultStoragePrefix     = "images"         // 图片对象键前缀
	DefaultS3Endpoint        = "localhost:9000" // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"     // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"     // 默认秘密访问密钥
	DefaultS3UseSSL          = false            // 默认是否使用SSL
	DefaultS3BucketName      = "scenevault"     // 默认存储桶名称
	DefaultS3Region          = "us-east-1"      // 默认区域
)

// StorageConfig 图片存储配置，支持本地文件系统与 MinIO S3 两种后端.
type StorageConfig struct {
	Backend StorageBackend `mapstructure:"backend" rule:"oneof=local s3"`
	// Root 本地后端的根目录；图片写入 <root>/<prefix>/ 下
	Root   string   `mapstructure:"root"`
	Prefix string   `mapstructure:"prefix"`
	S3     S3Config `mapstructure:"s3"`
}

// S3Config MinIO S3存储配置.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
}

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// setDefaults 设置存储配置的默认值.
func (c *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", DefaultStorageBackend)
	v.SetDefault("storage.root", DefaultStorageRoot)
	v.SetDefault("storage.prefix", DefaultStoragePrefix)
	v.SetDefault("storage.s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("storage.s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("storage.s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("storage.s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("storage.s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("storage.s3.region", DefaultS3Region)
}

// Package media 处理图片对象的存取操作.
// 通过工厂模式抽象不同的存储后端（本地文件系统、S3），
// 上层服务只依赖 Store 接口，后端由配置选择.
package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/yeisme/scenevault/pkg/configs"
)

// Object 描述存储中的一个图片对象.
type Object struct {
	Ref     string    // 存储引用，如 images/<uuid>.png
	Size    int64     // 字节数
	ModTime time.Time // 最后修改时间
}

// Store 定义图片存储后端的操作集合.
type Store interface {
	// Save 写入图片数据，返回存储引用.
	Save(ctx context.Context, data []byte, mime string) (string, error)
	// Open 按引用打开图片，调用方负责 Close.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	// Remove 删除引用对应的对象，对象不存在时不报错.
	Remove(ctx context.Context, ref string) error
	// List 列出前缀下的全部对象，用于孤儿文件扫描.
	List(ctx context.Context) ([]Object, error)
	// HealthCheck 验证后端可用.
	HealthCheck(ctx context.Context) error
	// Close 释放后端资源.
	Close() error
}

// Factory 定义创建存储后端的工厂函数.
type Factory func(ctx context.Context, cfg *configs.StorageConfig) (Store, error)

var factories = map[configs.StorageBackend]Factory{}

// RegisterFactory 注册指定后端的工厂.
func RegisterFactory(b configs.StorageBackend, f Factory) {
	factories[b] = f
}

// New 按配置创建图片存储后端.
func New(ctx context.Context, cfg *configs.StorageConfig) (Store, error) {
	factory, ok := factories[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}

	return factory(ctx, cfg)
}

// mime 类型到文件扩展名的映射.
var extByMime = map[string]string{
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ExtForMime 返回 mime 对应的扩展名，png/webp 之外一律按 jpg 存储.
func ExtForMime(mime string) string {
	if ext, ok := extByMime[mime]; ok {
		return ext
	}

	return ".jpg"
}

// newRef 生成新的存储引用：<prefix>/<uuid><ext>.
func newRef(prefix, mime string) string {
	name := uuid.New().String() + ExtForMime(mime)
	if prefix == "" {
		return name
	}

	return prefix + "/" + name
}

// Package media 本地文件系统后端实现.
// 图片写入 <root>/<prefix>/ 目录，写入采用临时文件 + rename，
// 避免读到写了一半的文件.
package media

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeisme/scenevault/pkg/configs"
	nlog "github.com/yeisme/scenevault/pkg/log"
)

// init 注册本地文件系统工厂.
func init() {
	RegisterFactory(configs.StorageLocal, localFactory)
}

// localStore 本地文件系统存储.
type localStore struct {
	root   string
	prefix string
}

func localFactory(ctx context.Context, cfg *configs.StorageConfig) (Store, error) {
	dir := filepath.Join(cfg.Root, filepath.FromSlash(cfg.Prefix))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}

	nlog.Logger().Info().Str("root", cfg.Root).Str("prefix", cfg.Prefix).Msg("local media store ready")

	return &localStore{root: cfg.Root, prefix: cfg.Prefix}, nil
}

// path 将存储引用换算为磁盘路径，拒绝跳出根目录的引用.
func (s *localStore) path(ref string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid media ref: %s", ref)
	}

	return filepath.Join(s.root, clean), nil
}

func (s *localStore) Save(ctx context.Context, data []byte, mime string) (string, error) {
	ref := newRef(s.prefix, mime)

	dst, err := s.path(ref)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return "", fmt.Errorf("write media: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store media: %w", err)
	}

	return ref, nil
}

func (s *localStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	p, err := s.path(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open media %s: %w", ref, err)
	}

	return f, nil
}

func (s *localStore) Remove(ctx context.Context, ref string) error {
	p, err := s.path(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media %s: %w", ref, err)
	}

	return nil
}

func (s *localStore) List(ctx context.Context) ([]Object, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(s.prefix))

	var objs []Object

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}

			return err
		}

		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}

		objs = append(objs, Object{
			Ref:     filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	return objs, nil
}

func (s *localStore) HealthCheck(ctx context.Context) error {
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(s.prefix)))
	return err
}

func (s *localStore) Close() error { return nil }

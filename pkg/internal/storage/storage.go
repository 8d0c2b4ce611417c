// Package storage 聚合存储资源：数据库、图片存储与消息队列.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	dbClient := mgr.GetDBClient()
//	mediaStore := mgr.GetMediaStore()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/scenevault/pkg/configs"
	dbc "github.com/yeisme/scenevault/pkg/internal/storage/db"
	"github.com/yeisme/scenevault/pkg/internal/storage/media"
	mqc "github.com/yeisme/scenevault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/scenevault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB    *dbc.Client
	Media media.Store
	MQ    *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// DB
		if dbi, e := dbc.New(ctx, &cfg.DB); e != nil {
			err = e
			return
		} else {
			m.DB = dbi
		}

		// 图片存储
		if st, e := media.New(ctx, &cfg.Storage); e != nil {
			err = e
			return
		} else {
			m.Media = st
		}

		// MQ 可选，未启用时事件发布为空操作
		if cfg.MQ.Enabled {
			if mqi, e := mqc.New(ctx); e != nil {
				err = e
				return
			} else {
				m.MQ = mqi
			}
		}

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetMediaStore 获取图片存储.
func (m *Manager) GetMediaStore() media.Store {
	return m.Media
}

// GetMQClient 获取 MQ 客户端，未启用时为 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 释放全部存储资源.
func (m *Manager) Close() error {
	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.Media != nil {
		if e := m.Media.Close(); e != nil {
			err = e
		}
	}

	if m.DB != nil {
		if e := m.DB.Close(); e != nil {
			err = e
		}
	}

	return err
}

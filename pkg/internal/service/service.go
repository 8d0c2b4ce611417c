// Package service 实现条目生命周期、设置与保留清理的业务逻辑.
package service

import (
	"context"

	ctxPkg "github.com/yeisme/scenevault/pkg/context"
	"github.com/yeisme/scenevault/pkg/internal/storage/db"
	"github.com/yeisme/scenevault/pkg/internal/storage/media"
	"github.com/yeisme/scenevault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/scenevault/pkg/log"
	"github.com/yeisme/scenevault/pkg/queue"
)

// EntryService 条目业务服务，聚合数据库、图片存储与消息队列.
type EntryService struct {
	dbClient   *db.Client
	mediaStore media.Store
	mqClient   *mq.Client
}

// NewEntryService 从 context 中解析存储依赖.
func NewEntryService(c context.Context) *EntryService {
	return &EntryService{
		dbClient:   ctxPkg.GetDBClient(c),
		mediaStore: ctxPkg.GetMediaStore(c),
		mqClient:   ctxPkg.GetMQClient(c),
	}
}

// publishEvent 尽力而为地发布生命周期事件，失败只记日志，不影响请求结果.
func (s *EntryService) publishEvent(topic string, payload queue.EntryEventPayload) {
	if s.mqClient == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(topic, payload)
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("build lifecycle event failed")
		return
	}

	if err := s.mqClient.Publish(context.Background(), topic, msg); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish lifecycle event failed")
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/yeisme/scenevault/pkg/configs"
	"github.com/yeisme/scenevault/pkg/internal/model"
	nlog "github.com/yeisme/scenevault/pkg/log"
	"github.com/yeisme/scenevault/pkg/metrics"
	"github.com/yeisme/scenevault/pkg/queue"
)

// RetentionService 负责回收站过期清理与孤儿文件回收.
type RetentionService struct{ *EntryService }

// NewRetentionService 从 context 中解析存储依赖.
func NewRetentionService(c context.Context) *RetentionService {
	return &RetentionService{NewEntryService(c)}
}

// Sweep 清理回收站中超出恢复窗口的条目.
// 每个候选先做条件删除记录（与并发恢复的串行化点），成功后再删图片；
// 这个顺序保证恢复赢了竞争的条目绝不会丢失图片.
// 单个条目失败只记日志，清理继续.返回本轮清除数量.
func (r *RetentionService) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	cutoff := time.Now().UTC().Add(-configs.GetConfig().Retention.GetRestoreWindow())

	var candidates []model.Entry

	err := r.dbClient.GetDB().WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&candidates).Error
	if err != nil {
		return 0, err
	}

	purged := 0

	for _, entry := range candidates {
		ref, err := r.Purge(ctx, entry.ID, cutoff)
		if errors.Is(err, ErrNotFound) {
			// 条目在候选查询之后被恢复，跳过
			continue
		}

		if err != nil {
			nlog.Logger().Error().Err(err).Str("id", entry.ID).Msg("purge entry failed")
			continue
		}

		if ref != "" {
			if err := r.mediaStore.Remove(ctx, ref); err != nil {
				nlog.Logger().Error().Err(err).Str("id", entry.ID).Str("ref", ref).Msg("remove purged image failed")
			}
		}

		purged++

		metrics.EntryLifecycle.WithLabelValues("purged").Inc()
		r.publishEvent(queue.TopicEntryPurged, queue.EntryEventPayload{EntryID: entry.ID, ImageRef: ref})
	}

	metrics.SweepDuration.Observe(time.Since(start).Seconds())

	if purged > 0 {
		nlog.Logger().Info().Int("purged", purged).Time("cutoff", cutoff).Msg("retention sweep done")
	}

	return purged, nil
}

// OrphanScan 回收没有条目指向的图片文件.
// 只处理修改时间早于宽限期的对象，避免误删上传管线中尚未写库的图片.
// 返回删除的文件数量.
func (r *RetentionService) OrphanScan(ctx context.Context) (int, error) {
	grace := configs.GetConfig().Retention.GetOrphanGrace()
	threshold := time.Now().UTC().Add(-grace)

	objects, err := r.mediaStore.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0

	for _, obj := range objects {
		if obj.ModTime.After(threshold) {
			continue
		}

		var count int64

		err := r.dbClient.GetDB().WithContext(ctx).Model(&model.Entry{}).Unscoped().
			Where("image_path = ?", obj.Ref).
			Count(&count).Error
		if err != nil {
			nlog.Logger().Error().Err(err).Str("ref", obj.Ref).Msg("orphan lookup failed")
			continue
		}

		if count > 0 {
			continue
		}

		if err := r.mediaStore.Remove(ctx, obj.Ref); err != nil {
			nlog.Logger().Error().Err(err).Str("ref", obj.Ref).Msg("remove orphan image failed")
			continue
		}

		removed++

		nlog.Logger().Info().Str("ref", obj.Ref).Msg("orphan image removed")
	}

	return removed, nil
}

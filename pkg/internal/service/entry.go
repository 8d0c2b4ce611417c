package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	"time"

	// 侧效导入注册 png/jpeg/webp 解码器，用于尺寸探测
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/oklog/ulid"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"

	"github.com/yeisme/scenevault/pkg/configs"
	"github.com/yeisme/scenevault/pkg/internal/classifier"
	"github.com/yeisme/scenevault/pkg/internal/model"
	nlog "github.com/yeisme/scenevault/pkg/log"
	"github.com/yeisme/scenevault/pkg/metrics"
	"github.com/yeisme/scenevault/pkg/queue"
)

// Create 上传管线：先落图片（临时态），再分类，最后写库.
// 图片类型不做本地白名单，未知类型交由分类上游判定.
// 落图之后任何一步失败都会尽力删除已写入的图片，原始错误照常返回.
func (s *EntryService) Create(ctx context.Context, data []byte, mime string) (*model.Entry, error) {
	if len(data) == 0 {
		return nil, ErrMissingImage
	}

	ref, err := s.mediaStore.Save(ctx, data, mime)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	cls, raw, err := classifier.Default().Classify(ctx, data, mime)
	if err != nil {
		s.compensateRemove(ref)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	entry := &model.Entry{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		ImagePath:   ref,
		ImageMime:   mime,
		Label:       cls.Label,
		Description: cls.Description,
		Confidence:  cls.Confidence,
		RawJSON:     raw,
	}

	if err := entry.SetTags(cls.Tags); err != nil {
		s.compensateRemove(ref)
		return nil, err
	}

	// 尺寸探测失败不致命，宽高保持为空
	if w, h, err := probeDimensions(data); err == nil {
		entry.ImageWidth, entry.ImageHeight = &w, &h
	} else {
		nlog.Logger().Debug().Err(err).Str("mime", mime).Msg("image dimension probe failed")
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Create(entry).Error; err != nil {
		s.compensateRemove(ref)
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	metrics.EntryLifecycle.WithLabelValues("created").Inc()
	s.publishEvent(queue.TopicEntryCreated, queue.EntryEventPayload{
		EntryID: entry.ID, ImageRef: ref, Label: entry.Label,
	})

	return entry, nil
}

// compensateRemove 回滚已保存的图片，失败只记日志.
func (s *EntryService) compensateRemove(ref string) {
	if err := s.mediaStore.Remove(context.Background(), ref); err != nil {
		nlog.Logger().Warn().Err(err).Str("ref", ref).Msg("compensating image removal failed")
	}
}

// probeDimensions 解析图片头部获取宽高.
func probeDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}

	return cfg.Width, cfg.Height, nil
}

// List 列出条目，created_at 倒序.
// includeDeleted 为 true 时包含回收站中的条目（Unscoped）.
func (s *EntryService) List(ctx context.Context, includeDeleted bool) ([]model.Entry, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Entry{})
	if includeDeleted {
		dbx = dbx.Unscoped()
	}

	var rows []model.Entry
	if err := dbx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// Get 按 ID 查询，任何删除状态都可见.
func (s *EntryService) Get(ctx context.Context, id string) (*model.Entry, error) {
	var entry model.Entry

	err := s.dbClient.GetDB().WithContext(ctx).Unscoped().First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// GetByShareToken 按分享令牌查询.
func (s *EntryService) GetByShareToken(ctx context.Context, token string) (*model.Entry, error) {
	var entry model.Entry

	err := s.dbClient.GetDB().WithContext(ctx).Unscoped().First(&entry, "share_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// SoftDelete 将条目移入回收站.
// 条件更新只命中活跃条目，零行表示不存在或已在回收站.
func (s *EntryService) SoftDelete(ctx context.Context, id string) error {
	tx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Entry{}).Unscoped().
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now().UTC())
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrNotFound
	}

	metrics.EntryLifecycle.WithLabelValues("deleted").Inc()
	s.publishEvent(queue.TopicEntryDeleted, queue.EntryEventPayload{EntryID: id})

	return nil
}

// Restore 将条目移出回收站.
// 先读取用于区分错误原因，再以窗口谓词做条件更新；
// 与清理任务竞争失败（零行）同样返回 ErrNotFound.
func (s *EntryService) Restore(ctx context.Context, id string) error {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !entry.DeletedAt.Valid {
		return ErrNotDeleted
	}

	cutoff := time.Now().UTC().Add(-configs.GetConfig().Retention.GetRestoreWindow())
	if entry.DeletedAt.Time.Before(cutoff) {
		return ErrWindowExpired
	}

	tx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Entry{}).Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL AND deleted_at >= ?", id, cutoff).
		Update("deleted_at", nil)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		// 清理任务抢先一步
		return ErrNotFound
	}

	metrics.EntryLifecycle.WithLabelValues("restored").Inc()
	s.publishEvent(queue.TopicEntryRestored, queue.EntryEventPayload{EntryID: id})

	return nil
}

// SetShare 切换条目分享状态.
// 开启时生成全新令牌（旧令牌随之失效），关闭时清空；对回收站中的条目同样生效.
func (s *EntryService) SetShare(ctx context.Context, id string, enable bool) (*model.Entry, error) {
	var token *string

	if enable {
		t := newShareToken()
		token = &t
	}

	tx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Entry{}).Unscoped().
		Where("id = ?", id).
		Update("share_token", token)
	if tx.Error != nil {
		return nil, tx.Error
	}

	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	if enable {
		metrics.EntryLifecycle.WithLabelValues("shared").Inc()
		s.publishEvent(queue.TopicEntryShared, queue.EntryEventPayload{EntryID: id})
	} else {
		metrics.EntryLifecycle.WithLabelValues("unshared").Inc()
		s.publishEvent(queue.TopicEntryUnshared, queue.EntryEventPayload{EntryID: id})
	}

	return s.Get(ctx, id)
}

// Purge 物理删除回收站中过期的条目记录.
// 删除条件与恢复共用同一窗口谓词，是并发恢复与清理的串行化点；
// 返回图片引用交由调用方删除文件.零行说明恢复赢了竞争.
func (s *EntryService) Purge(ctx context.Context, id string, cutoff time.Time) (string, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	tx := s.dbClient.GetDB().WithContext(ctx).Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL AND deleted_at < ?", id, cutoff).
		Delete(&model.Entry{})
	if tx.Error != nil {
		return "", tx.Error
	}

	if tx.RowsAffected == 0 {
		return "", ErrNotFound
	}

	return entry.ImagePath, nil
}

// newShareToken 生成 ULID 分享令牌，时间有序且全局唯一.
func newShareToken() string {
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String()
}

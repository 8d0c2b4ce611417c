package service

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	ctxPkg "github.com/yeisme/scenevault/pkg/context"
	"github.com/yeisme/scenevault/pkg/internal/model"
	"github.com/yeisme/scenevault/pkg/internal/storage/db"
)

// SettingsService 管理全局设置单例行.
type SettingsService struct {
	dbClient *db.Client
}

// NewSettingsService 从 context 中解析存储依赖.
func NewSettingsService(c context.Context) *SettingsService {
	return &SettingsService{dbClient: ctxPkg.GetDBClient(c)}
}

// Ensure 保证设置行存在，启动时调用.已存在则不变.
func (s *SettingsService) Ensure(ctx context.Context) error {
	settings := model.Settings{ID: model.SettingsID}

	return s.dbClient.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&settings).Error
}

// Get 读取当前设置.
func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	var settings model.Settings
	if err := s.dbClient.GetDB().WithContext(ctx).First(&settings, model.SettingsID).Error; err != nil {
		return nil, err
	}

	return &settings, nil
}

// Set 更新公开开关.
func (s *SettingsService) Set(ctx context.Context, isPublic bool) (*model.Settings, error) {
	err := s.dbClient.GetDB().WithContext(ctx).Model(&model.Settings{}).
		Where("id = ?", model.SettingsID).
		Updates(map[string]any{"is_public": isPublic, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return nil, err
	}

	return s.Get(ctx)
}

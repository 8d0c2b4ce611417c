// Package model 定义数据库模型.
package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

// Entry 日志条目模型：一张图片及其视觉分类结果.
// DeletedAt 为 GORM 软删除字段，进入回收站即置位，
// 超过恢复窗口后由清理任务连同图片一起物理删除.
type Entry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index"              json:"created_at"`

	// 图片对象信息
	ImagePath   string `gorm:"size:1024" json:"image_path"`
	ImageMime   string `gorm:"size:64"   json:"image_mime"`
	ImageWidth  *int   `json:"image_width,omitempty"`
	ImageHeight *int   `json:"image_height,omitempty"`

	// 分类结果
	Label       string `gorm:"size:255;index" json:"label"`
	Description string `gorm:"type:text"      json:"description"`
	// Tags 以 JSON 字符串形式存储，便于模糊搜索；未来可替换为 JSONB
	TagsJSON   string   `gorm:"type:text" json:"-"`
	Confidence *float64 `json:"confidence,omitempty"`
	// RawJSON 保留分类器原始响应，便于排查与重放
	RawJSON string `gorm:"type:text" json:"-"`

	// 分享令牌，非空即表示条目可被公开访问
	ShareToken *string `gorm:"size:64;uniqueIndex" json:"share_token,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Tags 反序列化标签列表，空字符串返回空切片.
func (e *Entry) Tags() ([]string, error) {
	if e.TagsJSON == "" {
		return []string{}, nil
	}

	var tags []string
	if err := sonic.Unmarshal([]byte(e.TagsJSON), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}

	return tags, nil
}

// SetTags 序列化标签列表写入 TagsJSON.
func (e *Entry) SetTags(tags []string) error {
	if tags == nil {
		tags = []string{}
	}

	b, err := sonic.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	e.TagsJSON = string(b)

	return nil
}

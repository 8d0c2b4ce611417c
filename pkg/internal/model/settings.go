package model

import "time"

// SettingsID 设置单例行的固定主键.
const SettingsID = 1

// Settings 全局设置单例，数据库中只存在 id=1 一行.
type Settings struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	IsPublic  bool      `json:"is_public"`
	UpdatedAt time.Time `json:"updated_at"`
}

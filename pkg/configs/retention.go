package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultRestoreWindowMinutes = 60           // 软删除后可恢复的窗口（分钟）
	DefaultSweepIntervalMinutes = 10           // 清扫任务运行间隔（分钟）
	DefaultOrphanGraceHours     = 6            // 孤儿文件宽限期（小时）
	DefaultOrphanScanCron       = "15 * * * *" // 孤儿文件扫描 cron 表达式（每小时）
)

// RetentionConfig 回收与清扫配置.
// 过期的软删除条目由后台任务硬删除，并一并移除其图片文件.
type RetentionConfig struct {
	// RestoreWindowMinutes 软删除后仍可恢复的时间窗口（分钟），窗口边界按含端点处理
	RestoreWindowMinutes int `mapstructure:"restore_window_minutes" rule:"min=1"`
	// SweepIntervalMinutes 清扫任务的固定运行间隔（分钟）
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" rule:"min=1"`
	// OrphanGraceHours 存储中无对应条目记录的文件在被清除前的最小存活时间（小时）
	OrphanGraceHours int `mapstructure:"orphan_grace_hours" rule:"min=1"`
	// OrphanScanCron 孤儿文件扫描任务的 cron 表达式
	OrphanScanCron string `mapstructure:"orphan_scan_cron"`
}

// GetRestoreWindow 返回恢复窗口.
func (c *RetentionConfig) GetRestoreWindow() time.Duration {
	return time.Duration(c.RestoreWindowMinutes) * time.Minute
}

// GetSweepInterval 返回清扫间隔.
func (c *RetentionConfig) GetSweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// GetOrphanGrace 返回孤儿文件宽限期.
func (c *RetentionConfig) GetOrphanGrace() time.Duration {
	return time.Duration(c.OrphanGraceHours) * time.Hour
}

func (c *RetentionConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("retention.restore_window_minutes", DefaultRestoreWindowMinutes)
	v.SetDefault("retention.sweep_interval_minutes", DefaultSweepIntervalMinutes)
	v.SetDefault("retention.orphan_grace_hours", DefaultOrphanGraceHours)
	v.SetDefault("retention.orphan_scan_cron", DefaultOrphanScanCron)
}

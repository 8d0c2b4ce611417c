package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort            = 4000      // 监听端口
	DefaultHost            = "0.0.0.0" // 监听地址
	DefaultReloadConfig    = true      // 是否启用配置热重载
	DefaultDebug           = false     // 是否启用调试模式
	DefaultTimeout         = 30        // 超时时间，单位秒
	DefaultMaxBodyBytes    = 10 << 20  // 请求体上限（10 MiB），在边界处拦截
	DefaultPublicBaseURL   = ""        // 对外可访问的基础 URL（为空时返回相对路径）
	DefaultEnableGzip      = true      // 是否启用 gzip 压缩
	DefaultShutdownTimeout = 10        // 优雅关闭等待时间（秒）
)

type (
	// ServerConfig 服务器配置.
	ServerConfig struct {
		Port            int    `mapstructure:"port"             rule:"min=1,max=65535"`
		Host            string `mapstructure:"host"             rule:"ip"`
		ReloadConfig    bool   `mapstructure:"reload_config"`
		Debug           bool   `mapstructure:"debug"`
		Timeout         int    `mapstructure:"timeout"          rule:"min=1,max=300"`
		MaxBodyBytes    int64  `mapstructure:"max_body_bytes"   rule:"min=1024"`
		PublicBaseURL   string `mapstructure:"public_base_url"`
		EnableGzip      bool   `mapstructure:"enable_gzip"`
		ShutdownTimeout int    `mapstructure:"shutdown_timeout" rule:"min=1,max=120"`
	}
)

// GetTimeoutDuration 返回超时时间作为time.Duration.
func (s *ServerConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// GetShutdownTimeout 返回优雅关闭等待时间.
func (s *ServerConfig) GetShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// setDefaults 设置服务器配置的默认值.
func (s *ServerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.reload_config", DefaultReloadConfig)
	v.SetDefault("server.debug", DefaultDebug)
	v.SetDefault("server.timeout", DefaultTimeout)
	v.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)
	v.SetDefault("server.public_base_url", DefaultPublicBaseURL)
	v.SetDefault("server.enable_gzip", DefaultEnableGzip)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
}

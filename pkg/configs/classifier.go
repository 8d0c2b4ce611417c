package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultClassifierBaseURL   = "https://api.anthropic.com" // 上游基础 URL
	DefaultClassifierModel     = "claude-opus-4-5"           // 默认模型名称
	DefaultClassifierMaxTokens = 512                         // 单次响应 token 上限
	DefaultClassifierTimeout   = 60                          // 上游调用超时（秒）

	// 熔断器默认配置（上游长时间不可用时快速失败）.
	DefaultCBEnabled           = true
	DefaultCBFailureRate       = 0.5
	DefaultCBMinRequests       = 5
	DefaultCBIntervalSeconds   = 60
	DefaultCBTimeoutSeconds    = 30
	DefaultCBMaxRequestsInHalf = 2
)

// ClassifierConfig 视觉分类器上游配置.
// APIKey 必须通过配置文件或环境变量 SCENEVAULT_CLASSIFIER_API_KEY 提供.
type ClassifierConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens" rule:"min=64,max=4096"`
	// Timeout 上游单次调用超时（秒）；必须有界，避免请求处理资源被长期占用
	Timeout int                  `mapstructure:"timeout" rule:"min=1,max=600"`
	Breaker CircuitBreakerConfig `mapstructure:"breaker"`
}

// CircuitBreakerConfig 熔断器配置.
type CircuitBreakerConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	FailureRate       float64 `mapstructure:"failure_rate"`         // 连续窗口失败比例阈值 [0,1]
	MinRequests       uint32  `mapstructure:"min_requests"`         // 进入统计的最小请求数
	IntervalSeconds   int     `mapstructure:"interval_seconds"`     // 滑动窗口统计周期
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`      // 打开状态持续时间（自动半开）
	MaxRequestsInHalf uint32  `mapstructure:"max_requests_in_half"` // 半开状态允许的并发请求数
}

// GetTimeout 返回上游调用超时.
func (c *ClassifierConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// setDefaults 设置分类器配置的默认值.
func (c *ClassifierConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("classifier.base_url", DefaultClassifierBaseURL)
	v.SetDefault("classifier.api_key", "")
	v.SetDefault("classifier.model", DefaultClassifierModel)
	v.SetDefault("classifier.max_tokens", DefaultClassifierMaxTokens)
	v.SetDefault("classifier.timeout", DefaultClassifierTimeout)
	v.SetDefault("classifier.breaker.enabled", DefaultCBEnabled)
	v.SetDefault("classifier.breaker.failure_rate", DefaultCBFailureRate)
	v.SetDefault("classifier.breaker.min_requests", DefaultCBMinRequests)
	v.SetDefault("classifier.breaker.interval_seconds", DefaultCBIntervalSeconds)
	v.SetDefault("classifier.breaker.timeout_seconds", DefaultCBTimeoutSeconds)
	v.SetDefault("classifier.breaker.max_requests_in_half", DefaultCBMaxRequestsInHalf)
}

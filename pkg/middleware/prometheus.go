package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/metrics"
)

// PrometheusMiddleware Prometheus监控中间件.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		method := c.Request.Method

		// 执行下一个中间件/处理器
		c.Next()

		if path == "" {
			// 未匹配路由，避免高基数标签
			path = "unmatched"
		}

		// 记录请求计数与持续时间
		metrics.RequestCounter.WithLabelValues(method, path).Inc()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/internal/handle"
)

// RegisterHealthRoutes 注册健康检查路由.
func RegisterHealthRoutes(g *gin.RouterGroup) {
	healthRoutes := g.Group("/health")
	{
		healthRoutes.GET("", handle.Health)
		healthRoutes.GET("/db", handle.HealthDB)
		healthRoutes.GET("/media", handle.HealthMedia)
		healthRoutes.GET("/mq", handle.HealthMQ)
	}
}

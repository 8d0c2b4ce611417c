package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/internal/handle"
)

// RegisterSettingsRoutes 注册设置路由.
func RegisterSettingsRoutes(g *gin.RouterGroup) {
	g.GET("/settings", handle.GetSettings)
	g.PUT("/settings", handle.PutSettings)
}

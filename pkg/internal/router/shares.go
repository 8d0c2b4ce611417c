package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/internal/handle"
)

// RegisterShareRoutes 注册分享访问路由.
func RegisterShareRoutes(g *gin.RouterGroup) {
	g.GET("/share/:token", handle.GetSharedEntry)
}

// Package router 管理路由配置，用于设置HTTP服务的路由规则.
// router 包只负责将路径和处理器绑定到 gin 引擎，处理器的实现由 pkg/internal/handle 提供.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/internal/handle"
)

// RegisterAPIRoutes 将全部业务路由绑定到 /api 组.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	RegisterHealthRoutes(api)
	RegisterSettingsRoutes(api)
	RegisterEntryRoutes(api)
	RegisterShareRoutes(api)
	RegisterSchedulerRoutes(api)
}

// RegisterMediaRoutes 注册图片内容路由（不在 /api 组下）.
func RegisterMediaRoutes(r gin.IRouter) {
	r.GET("/media/*path", handle.ServeMedia)
}

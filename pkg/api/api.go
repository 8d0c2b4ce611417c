// Package api 负责将业务路由注册到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/internal/router"
)

// RegisterGroup 注册全部路由：/api 业务组与 /media 图片内容.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	router.RegisterAPIRoutes(e.Group("/api"))
	router.RegisterMediaRoutes(e)

	return e
}

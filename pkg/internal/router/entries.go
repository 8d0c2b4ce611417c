package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/internal/handle"
)

// RegisterEntryRoutes 注册条目生命周期路由.
func RegisterEntryRoutes(g *gin.RouterGroup) {
	entryRoutes := g.Group("/entries")

	{
		entryRoutes.GET("", handle.ListEntries)    // 条目列表
		entryRoutes.POST("", handle.CreateEntry)   // 上传并分类

		// ===== 单条目操作路由 =====
		entryGroup := entryRoutes.Group("/:id")
		{
			entryGroup.GET("", handle.GetEntry)               // 条目详情
			entryGroup.POST("/delete", handle.DeleteEntry)    // 移入回收站
			entryGroup.POST("/restore", handle.RestoreEntry)  // 窗口内恢复
			entryGroup.POST("/share", handle.ShareEntry)      // 分享开关
		}
	}

	// 公开模式下的只读列表
	g.GET("/public/entries", handle.PublicEntries)
}

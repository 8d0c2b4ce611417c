package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/internal/service"
	"github.com/yeisme/scenevault/pkg/internal/types"
)

// GetSettings 读取全局设置.
//
//	@Summary	读取设置
//	@Tags		设置
//	@Produce	json
//	@Success	200	{object}	types.SettingsPayload
//	@Failure	500	{object}	types.ErrorResponse
//	@Router		/api/settings [get]
func GetSettings(c *gin.Context) {
	svc := service.NewSettingsService(c.Request.Context())

	settings, err := svc.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SettingsPayload{IsPublic: settings.IsPublic})
}

// PutSettings 更新全局设置.
//
//	@Summary	更新设置
//	@Tags		设置
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.SettingsPayload	true	"设置"
//	@Success	200		{object}	types.SettingsPayload
//	@Failure	400		{object}	types.ErrorResponse
//	@Router		/api/settings [put]
func PutSettings(c *gin.Context) {
	var req types.SettingsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	svc := service.NewSettingsService(c.Request.Context())

	settings, err := svc.Set(c.Request.Context(), req.IsPublic)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SettingsPayload{IsPublic: settings.IsPublic})
}

// PublicEntries 公开模式下的条目列表，未开启时隐藏存在性（404）.
//
//	@Summary	公开条目列表
//	@Tags		公开
//	@Produce	json
//	@Success	200	{array}		types.EntrySummary
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/public/entries [get]
func PublicEntries(c *gin.Context) {
	settingsSvc := service.NewSettingsService(c.Request.Context())

	settings, err := settingsSvc.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	if !settings.IsPublic {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "not found"})
		return
	}

	ListEntries(c)
}

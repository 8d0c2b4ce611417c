// Package handle 提供请求处理器的实现，用于处理HTTP请求.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/configs"
	"github.com/yeisme/scenevault/pkg/internal/model"
	"github.com/yeisme/scenevault/pkg/internal/service"
	"github.com/yeisme/scenevault/pkg/internal/types"
	"github.com/yeisme/scenevault/pkg/log"
)

// writeError 将服务层错误映射为 HTTP 状态码与统一错误体.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotDeleted),
		errors.Is(err, service.ErrWindowExpired),
		errors.Is(err, service.ErrMissingImage):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.Logger().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	c.JSON(status, types.ErrorResponse{Error: err.Error()})
}

// toSummary 将条目模型转换为列表视图.
func toSummary(e *model.Entry) types.EntrySummary {
	tags, err := e.Tags()
	if err != nil {
		// 存量脏数据兜底，返回空标签而不是失败
		log.Logger().Warn().Err(err).Str("id", e.ID).Msg("decode entry tags failed")

		tags = []string{}
	}

	return types.EntrySummary{
		ID:          e.ID,
		CreatedAt:   e.CreatedAt,
		ImageURL:    "/media/" + e.ImagePath,
		Label:       e.Label,
		Description: e.Description,
		Tags:        tags,
		Confidence:  e.Confidence,
		Shared:      e.ShareToken != nil,
	}
}

// toDetail 将条目模型转换为详情视图，分享开启时附带分享链接.
func toDetail(e *model.Entry) types.EntryDetail {
	detail := types.EntryDetail{
		EntrySummary: toSummary(e),
		ImageMime:    e.ImageMime,
		ImageWidth:   e.ImageWidth,
		ImageHeight:  e.ImageHeight,
	}

	if e.ShareToken != nil {
		base := configs.GetConfig().Server.PublicBaseURL
		u := base + "/api/share/" + *e.ShareToken
		detail.ShareURL = &u
	}

	return detail
}

package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/internal/service"
)

// GetSharedEntry 按分享令牌访问条目.
// 令牌是唯一凭证，不校验调用方身份.
//
//	@Summary	按分享令牌查看条目
//	@Tags		分享
//	@Produce	json
//	@Param		token	path		string	true	"分享令牌"
//	@Success	200		{object}	types.EntryDetail
//	@Failure	404		{object}	types.ErrorResponse
//	@Router		/api/share/{token} [get]
func GetSharedEntry(c *gin.Context) {
	svc := service.NewEntryService(c.Request.Context())

	entry, err := svc.GetByShareToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDetail(entry))
}

package handle

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/scenevault/pkg/internal/service"
	"github.com/yeisme/scenevault/pkg/internal/types"
)

// isBodyTooLarge 判断错误是否由 MaxBytesReader 超限触发.
// multipart 解析路径上该错误可能未经 %w 包装，字符串匹配兜底.
func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}

	return strings.Contains(err.Error(), "request body too large")
}

// ListEntries 列出全部活跃条目，按创建时间倒序.
//
//	@Summary	条目列表
//	@Tags		条目
//	@Produce	json
//	@Success	200	{array}		types.EntrySummary
//	@Failure	500	{object}	types.ErrorResponse
//	@Router		/api/entries [get]
func ListEntries(c *gin.Context) {
	svc := service.NewEntryService(c.Request.Context())

	rows, err := svc.List(c.Request.Context(), false)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]types.EntrySummary, 0, len(rows))
	for i := range rows {
		items = append(items, toSummary(&rows[i]))
	}

	c.JSON(http.StatusOK, items)
}

// CreateEntry 上传图片并分类，创建新条目.
//
//	@Summary	上传并分类图片
//	@Tags		条目
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		image	formData	file	true	"图片文件 (最大10MiB)"
//	@Success	200		{object}	types.CreateEntryResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Failure	413		{object}	types.ErrorResponse
//	@Failure	502		{object}	types.ErrorResponse
//	@Router		/api/entries [post]
func CreateEntry(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(c, service.ErrTooLarge)
			return
		}

		writeError(c, service.ErrMissingImage)

		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		if isBodyTooLarge(err) {
			err = service.ErrTooLarge
		}

		writeError(c, err)

		return
	}

	mime := fh.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}

	svc := service.NewEntryService(c.Request.Context())

	entry, err := svc.Create(c.Request.Context(), data, mime)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CreateEntryResponse{Entry: toDetail(entry)})
}

// GetEntry 获取单个条目详情，回收站中的条目同样可见.
//
//	@Summary	条目详情
//	@Tags		条目
//	@Produce	json
//	@Param		id	path		string	true	"条目ID"
//	@Success	200	{object}	types.EntryDetail
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/entries/{id} [get]
func GetEntry(c *gin.Context) {
	svc := service.NewEntryService(c.Request.Context())

	entry, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDetail(entry))
}

// DeleteEntry 将条目移入回收站.
//
//	@Summary	删除条目（软删除）
//	@Tags		条目
//	@Produce	json
//	@Param		id	path		string	true	"条目ID"
//	@Success	200	{object}	types.EntryStatusResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/entries/{id}/delete [post]
func DeleteEntry(c *gin.Context) {
	svc := service.NewEntryService(c.Request.Context())

	if err := svc.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.EntryStatusResponse{Status: "deleted"})
}

// RestoreEntry 在恢复窗口内将条目移出回收站.
//
//	@Summary	恢复条目
//	@Tags		条目
//	@Produce	json
//	@Param		id	path		string	true	"条目ID"
//	@Success	200	{object}	types.EntryStatusResponse
//	@Failure	400	{object}	types.ErrorResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/entries/{id}/restore [post]
func RestoreEntry(c *gin.Context) {
	svc := service.NewEntryService(c.Request.Context())

	if err := svc.Restore(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.EntryStatusResponse{Status: "restored"})
}

// ShareEntry 切换条目分享状态.
//
//	@Summary	开启/关闭分享
//	@Tags		条目
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"条目ID"
//	@Param		body	body		types.ShareRequest	true	"分享开关"
//	@Success	200		{object}	types.ShareResponse
//	@Failure	404		{object}	types.ErrorResponse
//	@Router		/api/entries/{id}/share [post]
func ShareEntry(c *gin.Context) {
	var req types.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	svc := service.NewEntryService(c.Request.Context())

	entry, err := svc.SetShare(c.Request.Context(), c.Param("id"), req.Enable)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ShareResponse{Entry: toDetail(entry)})
}

package handle

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/scenevault/pkg/context"
	"github.com/yeisme/scenevault/pkg/internal/types"
)

// mimeByExt 按扩展名推断响应 Content-Type.
var mimeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// ServeMedia 从图片存储中读出并回写图片字节.
//
//	@Summary	图片内容
//	@Tags		媒体
//	@Produce	octet-stream
//	@Param		path	path	string	true	"图片存储引用"
//	@Success	200
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/media/{path} [get]
func ServeMedia(c *gin.Context) {
	ref := strings.TrimPrefix(c.Param("path"), "/")
	if ref == "" || strings.Contains(ref, "..") {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "not found"})
		return
	}

	store := ctxPkg.GetMediaStore(c.Request.Context())

	rc, err := store.Open(c.Request.Context(), ref)
	if err != nil {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "not found"})
		return
	}
	defer rc.Close()

	contentType := mimeByExt[path.Ext(ref)]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)

	_, _ = io.Copy(c.Writer, rc)
}

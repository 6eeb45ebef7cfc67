package handler

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	filesvc "github.com/ashwinyue/edu-ai/internal/service/file"
)

// ObjectHandler 本地存储的签名下载
type ObjectHandler struct {
	storage *filesvc.LocalStorage
}

// NewObjectHandler 创建下载处理器
func NewObjectHandler(storage *filesvc.LocalStorage) *ObjectHandler {
	return &ObjectHandler{storage: storage}
}

// Download 校验令牌后返回对象内容
// GET /objects/*key?token=
func (h *ObjectHandler) Download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if err := h.storage.Verify(key, c.Query("token")); err != nil {
		Fail(c, http.StatusForbidden, "invalid or expired signature")
		return
	}

	f, err := h.storage.Open(key)
	if errors.Is(err, filesvc.ErrObjectNotFound) {
		Fail(c, http.StatusNotFound, "object not found")
		return
	}
	if err != nil {
		Error(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+strings.ReplaceAll(path.Base(key), `"`, "")+`"`)
	c.DataFromReader(http.StatusOK, info.Size(), "application/pdf", f, nil)
}

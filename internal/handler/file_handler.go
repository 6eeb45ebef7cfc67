package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	filesvc "github.com/ashwinyue/edu-ai/internal/service/file"
	"github.com/ashwinyue/edu-ai/internal/service/types"
)

// uploadField multipart 表单中文件字段名
const uploadField = "files"

// FileHandler 文件处理器
type FileHandler struct {
	fileSvc *filesvc.Service
}

// NewFileHandler 创建文件处理器
func NewFileHandler(fileSvc *filesvc.Service) *FileHandler {
	return &FileHandler{
		fileSvc: fileSvc,
	}
}

// Upload 上传文件
// @Summary      上传 PDF
// @Description  上传一个或多个 PDF，单个文件不超过 50MB，每个用户最多 3 个文件
// @Tags         文件管理
// @Accept       multipart/form-data
// @Produce      json
// @Param        files formData file true "PDF 文件，可重复"
// @Success      200  {object}  SuccessResponse  "上传成功或已达上限"
// @Failure      400  {object}  ErrorResponse    "参数错误"
// @Failure      401  {object}  ErrorResponse    "未认证"
// @Failure      500  {object}  ErrorResponse    "存储错误"
// @Router       /upload [post]
func (h *FileHandler) Upload(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		Error(c, err)
		return
	}

	limit := h.fileSvc.MaxRequestBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(c, types.NewValidationError("request is larger than %s", humanize.IBytes(uint64(limit))))
			return
		}
		Error(c, types.NewValidationError("invalid form data"))
		return
	}
	headers := form.File[uploadField]
	if len(headers) == 0 {
		Error(c, types.NewValidationError("invalid form data"))
		return
	}

	files := make([]filesvc.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadFile(fh))
	}

	result, err := h.fileSvc.Upload(c.Request.Context(), owner, files)
	if err != nil {
		Error(c, err)
		return
	}

	switch {
	case len(result.Files) == 0 && result.LimitReached:
		Success(c, "file limit reached", result)
	case result.LimitReached:
		Success(c, fmt.Sprintf("uploaded %d files, file limit reached", len(result.Files)), result)
	default:
		Success(c, "all files uploaded", result)
	}
}

func uploadFile(fh *multipart.FileHeader) filesvc.UploadFile {
	return filesvc.UploadFile{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// List 列出当前用户的文件
// @Summary      文件列表
// @Tags         文件管理
// @Produce      json
// @Success      200  {object}  SuccessResponse
// @Router       /upload [get]
func (h *FileHandler) List(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		Error(c, err)
		return
	}

	files, err := h.fileSvc.List(c.Request.Context(), owner)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, "files fetched", files)
}

// Get 获取单个文件
func (h *FileHandler) Get(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		Error(c, err)
		return
	}

	rec, err := h.fileSvc.Get(c.Request.Context(), owner, c.Param("fileId"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, "file fetched", rec)
}

// DeleteByID 按 ID 删除文件
// @Summary      删除文件
// @Tags         文件管理
// @Produce      json
// @Param        fileId path string true "文件ID"
// @Success      200  {object}  SuccessResponse
// @Failure      404  {object}  ErrorResponse  "文件不存在或不属于当前用户"
// @Router       /files/{fileId} [delete]
func (h *FileHandler) DeleteByID(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		Error(c, err)
		return
	}

	rec, err := h.fileSvc.DeleteByID(c.Request.Context(), owner, c.Param("fileId"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, fmt.Sprintf("File with name %s deleted successfully", rec.FileName), nil)
}

// DeleteByName 按文件名删除文件
func (h *FileHandler) DeleteByName(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		Error(c, err)
		return
	}

	rec, err := h.fileSvc.DeleteByName(c.Request.Context(), owner, c.Param("fileName"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, fmt.Sprintf("file with name %s deleted", rec.FileName), nil)
}

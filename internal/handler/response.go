package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/edu-ai/internal/service/types"
)

// ========== 统一响应格式 ==========

// SuccessResponse 成功响应
type SuccessResponse struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 错误响应，error 与 message 相同，data 固定为 null
type ErrorResponse struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Error   string      `json:"error"`
	Data    interface{} `json:"data"`
}

// debug 为 true 时记录所有错误的原始信息
var debug bool

// SetDebug 设置是否记录原始错误
func SetDebug(enabled bool) {
	debug = enabled
}

// Success 成功响应 (200)
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{OK: true, Message: message, Data: data})
}

// Fail 错误响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{OK: false, Message: message, Error: message})
}

// Error 根据错误类型返回相应的错误响应
// 原始错误只写日志，不返回给客户端
func Error(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, message := classify(err)
	if debug || status >= http.StatusInternalServerError {
		log.Printf("API Error: %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	Fail(c, status, message)
}

// classify 将服务层错误映射为状态码和对外文案
func classify(err error) (int, string) {
	var (
		verr *types.ValidationError
		lerr *types.LimitExceededError
		uerr *types.UpstreamError
	)
	switch {
	case errors.Is(err, types.ErrUnauthenticated):
		return http.StatusUnauthorized, types.ErrUnauthenticated.Error()
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, types.ErrNotFound.Error()
	case errors.As(err, &verr):
		return verr.StatusCode(), verr.Message
	case errors.As(err, &lerr):
		return http.StatusConflict, lerr.Error()
	case errors.As(err, &uerr):
		return uerr.StatusCode(), uerr.Message
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

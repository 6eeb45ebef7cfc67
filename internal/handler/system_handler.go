package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker 检查依赖是否可用
type HealthChecker func(ctx context.Context) error

// SystemHandler 系统处理器
type SystemHandler struct {
	version string
	health  HealthChecker
}

// NewSystemHandler 创建系统处理器，health 可以为 nil
func NewSystemHandler(version string, health HealthChecker) *SystemHandler {
	return &SystemHandler{version: version, health: health}
}

// Health 健康检查
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.health(ctx); err != nil {
			Fail(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	Success(c, "ok", gin.H{"status": "ok", "version": h.version})
}

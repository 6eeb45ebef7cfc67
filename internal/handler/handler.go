package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/edu-ai/internal/middleware"
	"github.com/ashwinyue/edu-ai/internal/service"
	"github.com/ashwinyue/edu-ai/internal/service/types"
)

// Handlers 处理器集合
type Handlers struct {
	File     *FileHandler
	Generate *GenerateHandler
	Object   *ObjectHandler // 仅本地存储
	System   *SystemHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services, health HealthChecker) *Handlers {
	h := &Handlers{
		File:     NewFileHandler(svc.Files),
		Generate: NewGenerateHandler(svc.Generate),
		System:   NewSystemHandler(svc.Config.App.Version, health),
	}
	if svc.LocalStorage != nil {
		h.Object = NewObjectHandler(svc.LocalStorage)
	}
	return h
}

// ownerID 读取 RequireAuth 写入的用户 ID
func ownerID(c *gin.Context) (string, error) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return "", types.ErrUnauthenticated
	}
	return id, nil
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ashwinyue/edu-ai/internal/handler"
	"github.com/ashwinyue/edu-ai/internal/middleware"
)

// SetupRouter 设置路由
// 业务路由同时挂载在 /api 和根路径下
func SetupRouter(h *handler.Handlers, auth middleware.TokenValidator) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.MetricsMiddleware())

	// 健康检查和指标
	r.GET("/health", h.System.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 本地存储签名下载，令牌即授权，不需要登录
	if h.Object != nil {
		r.GET("/objects/*key", h.Object.Download)
	}

	requireAuth := middleware.RequireAuth(auth)
	registerAPI(r.Group("/api", requireAuth), h)
	registerAPI(r.Group("", requireAuth), h)

	return r
}

// registerAPI 注册需要认证的业务路由
func registerAPI(g *gin.RouterGroup, h *handler.Handlers) {
	// Upload 上传
	g.POST("/upload", h.File.Upload)
	g.GET("/upload", h.File.List)

	// Files 文件
	files := g.Group("/files")
	{
		files.GET("/:fileId", h.File.Get)
		files.DELETE("/:fileId", h.File.DeleteByID)
		files.DELETE("/by-name/:fileName", h.File.DeleteByName)
	}

	// Generate 生成
	gen := g.Group("/generate")
	{
		gen.GET("/:fileId/summaries", h.Generate.Summary)
		gen.POST("/:fileId/summaries", h.Generate.Summary)
		gen.GET("/:fileId/question-and-answer", h.Generate.QuestionAndAnswer)
		gen.POST("/:fileId/question-and-answer", h.Generate.QuestionAndAnswer)
		gen.GET("/:fileId/history", h.Generate.History)

		gen.GET("/by-name/:fileName/summaries", h.Generate.SummaryByName)
		gen.POST("/by-name/:fileName/summaries", h.Generate.SummaryByName)
		gen.GET("/by-name/:fileName/question-and-answer", h.Generate.QuestionAndAnswerByName)
		gen.POST("/by-name/:fileName/question-and-answer", h.Generate.QuestionAndAnswerByName)
	}
}

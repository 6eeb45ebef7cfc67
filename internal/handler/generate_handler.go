package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/edu-ai/internal/model"
	"github.com/ashwinyue/edu-ai/internal/service/generate"
)

// GenerateHandler 生成处理器
type GenerateHandler struct {
	genSvc *generate.Service
}

// NewGenerateHandler 创建生成处理器
func NewGenerateHandler(genSvc *generate.Service) *GenerateHandler {
	return &GenerateHandler{genSvc: genSvc}
}

// Summary 按文件 ID 生成摘要
// @Summary      生成摘要
// @Tags         生成
// @Produce      json
// @Param        fileId path string true "文件ID"
// @Success      200  {object}  SuccessResponse  "data 为模型返回的文本"
// @Failure      404  {object}  ErrorResponse    "文件不存在或不属于当前用户"
// @Failure      502  {object}  ErrorResponse    "模型调用失败"
// @Router       /generate/{fileId}/summaries [post]
func (h *GenerateHandler) Summary(c *gin.Context) {
	h.byID(c, model.GenerationKindSummary)
}

// QuestionAndAnswer 按文件 ID 生成问答
// @Summary      生成问答
// @Tags         生成
// @Produce      json
// @Param        fileId path string true "文件ID"
// @Success      200  {object}  SuccessResponse  "data 为模型返回的文本"
// @Router       /generate/{fileId}/question-and-answer [post]
func (h *GenerateHandler) QuestionAndAnswer(c *gin.Context) {
	h.byID(c, model.GenerationKindQA)
}

// SummaryByName 按文件名生成摘要
func (h *GenerateHandler) SummaryByName(c *gin.Context) {
	h.byName(c, model.GenerationKindSummary)
}

// QuestionAndAnswerByName 按文件名生成问答
func (h *GenerateHandler) QuestionAndAnswerByName(c *gin.Context) {
	h.byName(c, model.GenerationKindQA)
}

func (h *GenerateHandler) byID(c *gin.Context, kind model.GenerationKind) {
	owner, err := ownerID(c)
	if err != nil {
		Error(c, err)
		return
	}
	res, err := h.genSvc.Generate(c.Request.Context(), owner, c.Param("fileId"), kind)
	h.respond(c, res, err)
}

func (h *GenerateHandler) byName(c *gin.Context, kind model.GenerationKind) {
	owner, err := ownerID(c)
	if err != nil {
		Error(c, err)
		return
	}
	res, err := h.genSvc.GenerateByName(c.Request.Context(), owner, c.Param("fileName"), kind)
	h.respond(c, res, err)
}

func (h *GenerateHandler) respond(c *gin.Context, res *generate.Result, err error) {
	if err != nil {
		Error(c, err)
		return
	}
	if res.Cached {
		c.Header("X-Cache", "HIT")
	}
	Success(c, generationMessage(res), res.Content)
}

// generationMessage 成功响应文案
func generationMessage(res *generate.Result) string {
	if res.Kind == model.GenerationKindQA {
		return fmt.Sprintf("Q&A of the PDF %s", res.FileName)
	}
	return fmt.Sprintf("summary of the pdf %s", res.FileName)
}

// History 获取文件已保存的生成结果
func (h *GenerateHandler) History(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		Error(c, err)
		return
	}
	gens, err := h.genSvc.History(c.Request.Context(), owner, c.Param("fileId"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, "generation history", gens)
}

package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	AIService *service.AIService
}

func NewAIController(aiService *service.AIService) *AIController {
	return &AIController{AIService: aiService}
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat godoc
// @Summary AI 助手对话
// @Description 未配置密钥时返回提示文案，上游全部失败时返回致歉文案
// @Tags AI
// @Accept json
// @Produce json
// @Param body body ChatRequest true "消息"
// @Success 200 {object} util.Response{data=service.ChatReply}
// @Router /api/ai/chat [post]
func (c *AIController) Chat(ctx *gin.Context) {
	var req ChatRequest
	if !bindJSON(ctx, &req) {
		return
	}
	reply, err := c.AIService.Chat(ctx.Request.Context(), req.Message)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, reply)
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	aiapp "chatterbox_service/internal/ai/app"
)

// AIHandler 处理 AI 改写请求
type AIHandler struct {
	RewriteUC *aiapp.RewriteUseCase
}

// NewAIHandler 创建新的 AIHandler
func NewAIHandler(rewriteUC *aiapp.RewriteUseCase) *AIHandler {
	return &AIHandler{RewriteUC: rewriteUC}
}

// Rewrite 改写消息
// @Summary Rewrite a draft message in the requested style
// @Tags AI
// @Accept json
// @Produce json
// @Param request body object true "rewrite payload"
// @Success 200 {object} string "rewritten message"
// @Failure 400 {object} string "invalid request"
// @Failure 502 {object} string "AI service failed"
// @Router /ai/rewrite [post]
func (h *AIHandler) Rewrite(c *fiber.Ctx) error {
	type request struct {
		Message     string `json:"message"`
		RewriteType string `json:"rewriteType"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	result, err := h.RewriteUC.Execute(c.Context(), req.Message, req.RewriteType)
	if err != nil {
		if errors.Is(err, aiapp.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// RewriteTypes 支持的改写类型
// @Summary List the supported rewrite types
// @Tags AI
// @Produce json
// @Success 200 {object} string "rewrite types"
// @Router /ai/rewrite/types [get]
func (h *AIHandler) RewriteTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"types": aiapp.RewriteTypes()})
}

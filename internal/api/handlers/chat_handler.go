package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	chatapp "chatterbox_service/internal/chat/app"
	"chatterbox_service/pkg/middlewares"
)

// ChatHandler 处理聊天相关的 HTTP 请求
type ChatHandler struct {
	ChatUC    *chatapp.ChatUseCase
	MessageUC *chatapp.MessageUseCase
}

// NewChatHandler 创建新的 ChatHandler
func NewChatHandler(chatUC *chatapp.ChatUseCase, messageUC *chatapp.MessageUseCase) *ChatHandler {
	return &ChatHandler{ChatUC: chatUC, MessageUC: messageUC}
}

// CreateOrGet 获取或创建单聊
// @Summary Open the direct chat with another member, creating it on first contact
// @Tags Chats
// @Accept json
// @Produce json
// @Param request body object true "partner payload"
// @Success 200 {object} string "existing chat"
// @Success 201 {object} string "created chat"
// @Failure 400 {object} string "invalid request"
// @Router /chats [post]
func (h *ChatHandler) CreateOrGet(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	type request struct {
		UserID string `json:"userId"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	chat, created, err := h.ChatUC.CreateOrGetChat(c.Context(), memberID, req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"chat": chat})
}

// List 当前用户的所有聊天
// @Summary All chats of the current member, most recently active first
// @Tags Chats
// @Produce json
// @Success 200 {object} string "chat list"
// @Router /chats [get]
func (h *ChatHandler) List(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	chats, err := h.ChatUC.GetUserChats(c.Context(), memberID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"chats": chats})
}

// Get 单个聊天
// @Summary One chat by id, participants only
// @Tags Chats
// @Produce json
// @Param chatId path string true "chat id"
// @Success 200 {object} string "chat"
// @Failure 404 {object} string "chat not found"
// @Router /chats/{chatId} [get]
func (h *ChatHandler) Get(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	chat, err := h.ChatUC.GetChat(c.Context(), c.Params("chatId"), memberID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"chat": chat})
}

// Messages 聊天历史
// @Summary Message history of a chat, oldest first
// @Tags Chats
// @Produce json
// @Param chatId path string true "chat id"
// @Param before query int false "only messages older than this unix ms timestamp"
// @Param limit query int false "max messages returned"
// @Success 200 {object} string "messages"
// @Failure 404 {object} string "chat not found"
// @Router /chats/{chatId}/messages [get]
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	before, _ := strconv.ParseInt(c.Query("before", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "0"), 10, 64)

	messages, err := h.MessageUC.History(c.Context(), c.Params("chatId"), memberID, before, limit)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// CreateGroup 创建群聊
// @Summary Create a group chat with the caller as admin
// @Tags Groups
// @Accept json
// @Produce json
// @Param request body object true "group payload"
// @Success 201 {object} string "created group"
// @Failure 400 {object} string "invalid request"
// @Router /chats/group [post]
func (h *ChatHandler) CreateGroup(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	type request struct {
		Name         string   `json:"name"`
		Participants []string `json:"participants"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	chat, err := h.ChatUC.CreateGroup(c.Context(), memberID, req.Name, req.Participants)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"chat": chat})
}

// AdminGroups 自己管理的群
// @Summary Groups the caller administers
// @Tags Groups
// @Produce json
// @Success 200 {object} string "group list"
// @Router /chats/group/admin [get]
func (h *ChatHandler) AdminGroups(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	chats, err := h.ChatUC.GroupsByAdmin(c.Context(), memberID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"chats": chats})
}

// RenameGroup 改群名
// @Summary Rename a group, admin only
// @Tags Groups
// @Accept json
// @Produce json
// @Param chatId path string true "chat id"
// @Param request body object true "name payload"
// @Success 200 {object} string "rename success"
// @Failure 400 {object} string "invalid request"
// @Router /chats/group/{chatId}/name [put]
func (h *ChatHandler) RenameGroup(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	type request struct {
		Name string `json:"name"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.ChatUC.RenameGroup(c.Context(), c.Params("chatId"), memberID, req.Name); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "rename success"})
}

// UploadGroupPicture 上传群头像
// @Summary Upload a group picture, admin only
// @Tags Groups
// @Accept mpfd
// @Produce json
// @Param chatId path string true "chat id"
// @Param picture formData file true "picture file"
// @Success 200 {object} string "picture url"
// @Failure 400 {object} string "invalid request"
// @Router /chats/group/{chatId}/picture [put]
func (h *ChatHandler) UploadGroupPicture(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "picture file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read picture file"})
	}
	defer file.Close()

	url, err := h.ChatUC.UpdateGroupPicture(c.Context(), c.Params("chatId"), memberID,
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"pictureUrl": url})
}

// GroupPicture 获取群头像
// @Summary Fresh link to the group picture, participants only
// @Tags Groups
// @Produce json
// @Param chatId path string true "chat id"
// @Success 200 {object} string "picture url"
// @Failure 404 {object} string "no picture"
// @Router /chats/group/{chatId}/picture [get]
func (h *ChatHandler) GroupPicture(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	url, err := h.ChatUC.GroupPictureURL(c.Context(), c.Params("chatId"), memberID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"pictureUrl": url})
}

// AddParticipant 加群成员
// @Summary Add a member to a group
// @Tags Groups
// @Accept json
// @Produce json
// @Param chatId path string true "chat id"
// @Param request body object true "member payload"
// @Success 200 {object} string "add success"
// @Failure 400 {object} string "invalid request"
// @Router /chats/group/{chatId}/participants [post]
func (h *ChatHandler) AddParticipant(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	type request struct {
		UserID string `json:"userId"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.ChatUC.AddParticipant(c.Context(), c.Params("chatId"), memberID, req.UserID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "add success"})
}

// RemoveParticipant 移除群成员
// @Summary Remove a member from a group
// @Tags Groups
// @Produce json
// @Param chatId path string true "chat id"
// @Param userId path string true "member id"
// @Success 200 {object} string "remove success"
// @Failure 400 {object} string "invalid request"
// @Router /chats/group/{chatId}/participants/{userId} [delete]
func (h *ChatHandler) RemoveParticipant(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	if err := h.ChatUC.RemoveParticipant(c.Context(), c.Params("chatId"), memberID, c.Params("userId")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "remove success"})
}

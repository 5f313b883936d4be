package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	memberapp "chatterbox_service/internal/member/app"
	"chatterbox_service/internal/member/domain"
	"chatterbox_service/pkg/logger"
	"chatterbox_service/pkg/middlewares"
)

// MemberHandler 处理用户相关的 HTTP 请求
type MemberHandler struct {
	Usecase memberapp.MemberUseCase
}

// NewMemberHandler 创建新的 MemberHandler
func NewMemberHandler(usecase memberapp.MemberUseCase) *MemberHandler {
	return &MemberHandler{Usecase: usecase}
}

type memberView struct {
	MemberID       string `json:"memberId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func toMemberView(m *domain.Member) memberView {
	return memberView{
		MemberID:       m.MemberID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		ProfilePicture: m.ProfilePicture,
	}
}

// Register 注册新用户
// @Summary Register a new member
// @Tags Members
// @Accept json
// @Produce json
// @Param request body object true "registration payload"
// @Success 201 {object} string "register success"
// @Failure 400 {object} string "invalid request"
// @Router /member/register [post]
func (h *MemberHandler) Register(c *fiber.Ctx) error {
	type request struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Info("Register request", zap.String("email", req.Email))

	if err := h.Usecase.Register(c.Context(), req.FirstName, req.LastName, req.Email, req.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "register success"})
}

// Login 用户登录
// @Summary Log a member in
// @Tags Members
// @Accept json
// @Produce json
// @Param request body object true "login payload"
// @Success 200 {object} string "login success"
// @Failure 401 {object} string "login failed"
// @Router /member/login [post]
func (h *MemberHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	token, err := h.Usecase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"token": token, "message": "login success"})
}

// Logout 用户登出
// @Summary Log the member out and revoke the session
// @Tags Members
// @Produce json
// @Success 200 {object} string "logout success"
// @Failure 500 {object} string "server error"
// @Router /member/logout [post]
func (h *MemberHandler) Logout(c *fiber.Ctx) error {
	token := middlewares.ExtractToken(c)
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing token"})
	}

	if err := h.Usecase.Logout(c.Context(), token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "logout success"})
}

// Profile 查看自己的资料
// @Summary Current member profile
// @Tags Members
// @Produce json
// @Success 200 {object} string "member profile"
// @Failure 404 {object} string "member not found"
// @Router /users/me [get]
func (h *MemberHandler) Profile(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	member, err := h.Usecase.FindMember(c.Context(), &domain.MemberQuery{MemberID: &memberID})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"user": toMemberView(member)})
}

// UpdateProfile 更新自己的资料
// @Summary Update first and last name
// @Tags Members
// @Accept json
// @Produce json
// @Param request body object true "profile payload"
// @Success 200 {object} string "update success"
// @Failure 400 {object} string "invalid request"
// @Router /users/me [put]
func (h *MemberHandler) UpdateProfile(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	type request struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.Usecase.UpdateProfile(c.Context(), memberID, req.FirstName, req.LastName); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "update success"})
}

// ChangePassword 修改密码
// @Summary Change the member password
// @Tags Members
// @Accept json
// @Produce json
// @Param request body object true "password payload"
// @Success 200 {object} string "password changed"
// @Failure 400 {object} string "invalid request"
// @Router /users/me/password [put]
func (h *MemberHandler) ChangePassword(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	type request struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.Usecase.ChangePassword(c.Context(), memberID, req.OldPassword, req.NewPassword); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "password changed"})
}

// Search 搜索其他用户
// @Summary Search members by name or email
// @Tags Members
// @Produce json
// @Param keyword query string true "search keyword"
// @Success 200 {object} string "matched members"
// @Failure 400 {object} string "invalid request"
// @Router /users/search [get]
func (h *MemberHandler) Search(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	members, err := h.Usecase.SearchMembers(c.Context(), memberID, c.Query("keyword"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	views := make([]memberView, 0, len(members))
	for i := range members {
		views = append(views, toMemberView(&members[i]))
	}
	return c.JSON(fiber.Map{"users": views})
}

// UploadPicture 上传头像
// @Summary Upload a profile picture
// @Tags Members
// @Accept mpfd
// @Produce json
// @Param picture formData file true "picture file"
// @Success 200 {object} string "picture url"
// @Failure 400 {object} string "invalid request"
// @Router /users/me/picture [put]
func (h *MemberHandler) UploadPicture(c *fiber.Ctx) error {
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

	url, err := h.Usecase.UploadProfilePicture(c.Context(), memberID,
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"pictureUrl": url})
}

// Picture 获取头像链接
// @Summary Fresh link to the current profile picture
// @Tags Members
// @Produce json
// @Success 200 {object} string "picture url"
// @Failure 404 {object} string "no picture"
// @Router /users/me/picture [get]
func (h *MemberHandler) Picture(c *fiber.Ctx) error {
	memberID := c.Locals(middlewares.TokenMemberID).(string)

	url, err := h.Usecase.ProfilePictureURL(c.Context(), memberID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"pictureUrl": url})
}

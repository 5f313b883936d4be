package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatterbox_service/internal/member/domain"
	"chatterbox_service/internal/member/repository"
	"chatterbox_service/pkg/database"
	"chatterbox_service/pkg/encrypt"
	errprocess "chatterbox_service/pkg/err"
	"chatterbox_service/pkg/logger"
	token "chatterbox_service/pkg/token"
)

// presignExpiry how long generated picture links stay valid
const presignExpiry = 24 * time.Hour

// searchLimit max members returned by a search
const searchLimit = 20

// ObjectStorage picture storage, satisfied by *database.MinIOClient
type ObjectStorage interface {
	UploadObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// MemberUseCase 這裡封裝了對外提供的應用服務
type MemberUseCase interface {
	Register(ctx context.Context, firstName, lastName, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	FindMember(ctx context.Context, param *domain.MemberQuery) (*domain.Member, error)
	UpdateProfile(ctx context.Context, memberID, firstName, lastName string) error
	ChangePassword(ctx context.Context, memberID, oldPassword, newPassword string) error
	SearchMembers(ctx context.Context, memberID, keyword string) ([]domain.Member, error)
	UploadProfilePicture(ctx context.Context, memberID, filename string, r io.Reader, size int64, contentType string) (string, error)
	ProfilePictureURL(ctx context.Context, memberID string) (string, error)
	// Verify implements middlewares.IdentityVerifier, shared by the
	// REST middleware and the websocket upgrade path
	Verify(ctx context.Context, credential string) (*token.Claims, error)
}

type memberUseCase struct {
	memberRepo repository.MemberRepository
	sessionTTL time.Duration
	redisRepo  database.RedisRepository[domain.MemberSession]
	storage    ObjectStorage
}

// NewMemberUseCase 建立一個新的 MemberUseCase
func NewMemberUseCase(memberRepo repository.MemberRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.MemberSession],
	storage ObjectStorage,
) MemberUseCase {
	return &memberUseCase{
		memberRepo: memberRepo,
		sessionTTL: sessionTTL,
		redisRepo:  redisRepo,
		storage:    storage,
	}
}

// Register
func (m *memberUseCase) Register(ctx context.Context, firstName, lastName, email, password string) error {
	firstName = strings.TrimSpace(firstName)
	email = strings.TrimSpace(email)
	if firstName == "" || email == "" {
		return errprocess.Set("first name and email are required")
	}

	// 檢查 email 是否已存在
	if _, err := m.memberRepo.FindByMember(ctx, &domain.MemberQuery{Email: &email}); err == nil {
		return errors.New("email already exists")
	}

	pw, err := encrypt.HashPassword(password)
	if err != nil {
		return err
	}

	member := domain.Member{
		MemberID:  uuid.New().String(),
		FirstName: firstName,
		LastName:  strings.TrimSpace(lastName),
		Email:     email,
		Password:  pw,
	}

	logger.Log.Info("usecase Register", zap.String("email", email))

	return m.memberRepo.CreateMember(ctx, &member)
}

// FindMember 用條件來尋找使用者
func (m *memberUseCase) FindMember(ctx context.Context, param *domain.MemberQuery) (*domain.Member, error) {
	return m.memberRepo.FindByMember(ctx, param)
}

// Login
func (m *memberUseCase) Login(ctx context.Context, email, password string) (string, error) {
	member, err := m.memberRepo.FindByMember(ctx, &domain.MemberQuery{Email: &email})
	if err != nil {
		logger.Log.Error("email can't find!!!")
		return "", errors.New("user not found")
	}

	if err = member.IsPasswordMatch(password); err != nil {
		logger.Log.Error("password can't match!!!")
		return "", err
	}

	member.Status = domain.MemberStatusOnLine

	t, err := token.GenerateJWTWrapper(member.MemberID, string(token.RoleMember))
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := domain.MemberSession{
		Token:        t,
		MemberID:     member.MemberID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(m.sessionTTL),
	}
	if err := m.redisRepo.Set(ctx, member.MemberID, session, m.sessionTTL); err != nil {
		return "", err
	}

	if err := m.memberRepo.UpdateMemberStatus(ctx, member); err != nil {
		return "", err
	}
	if err := m.memberRepo.UpdateLastLogin(ctx, member.MemberID, now); err != nil {
		logger.Log.Warn("update last login failed", zap.String("MemberID", member.MemberID), zap.Error(err))
	}

	return t, nil
}

// Logout
func (m *memberUseCase) Logout(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWTWrapper(t)
	if err != nil {
		logger.Log.Error("Logout err :", zap.String("err", err.Error()))
		return err
	}

	if err := m.redisRepo.Del(ctx, tokenInfo.MemberID); err != nil {
		logger.Log.Warn("delete session failed", zap.String("MemberID", tokenInfo.MemberID), zap.Error(err))
	}

	return m.memberRepo.UpdateMemberStatus(ctx, &domain.Member{
		MemberID: tokenInfo.MemberID,
		Status:   domain.MemberStatusOffLine,
	})
}

// UpdateProfile change first and last name
func (m *memberUseCase) UpdateProfile(ctx context.Context, memberID, firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return errprocess.Set("first name is required")
	}
	return m.memberRepo.UpdateProfile(ctx, memberID, firstName, strings.TrimSpace(lastName))
}

// ChangePassword verify the old password before storing the new hash
func (m *memberUseCase) ChangePassword(ctx context.Context, memberID, oldPassword, newPassword string) error {
	member, err := m.memberRepo.FindByMember(ctx, &domain.MemberQuery{MemberID: &memberID})
	if err != nil {
		return err
	}
	if err := member.IsPasswordMatch(oldPassword); err != nil {
		return errprocess.Set("current password is incorrect")
	}

	pw, err := encrypt.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return m.memberRepo.UpdatePassword(ctx, memberID, pw)
}

// SearchMembers find other members by name or email fragment
func (m *memberUseCase) SearchMembers(ctx context.Context, memberID, keyword string) ([]domain.Member, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errprocess.Set("search keyword is required")
	}
	return m.memberRepo.SearchMembers(ctx, keyword, memberID, searchLimit)
}

// UploadProfilePicture store the picture and return a link to it
func (m *memberUseCase) UploadProfilePicture(ctx context.Context, memberID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	objectName := "members/" + memberID + "/" + uuid.NewString() + filepath.Ext(filename)
	if err := m.storage.UploadObject(ctx, objectName, r, size, contentType); err != nil {
		return "", err
	}
	if err := m.memberRepo.UpdateProfilePicture(ctx, memberID, objectName); err != nil {
		return "", err
	}
	return m.storage.PresignGetURL(ctx, objectName, presignExpiry)
}

// ProfilePictureURL a fresh link to the member's current picture
func (m *memberUseCase) ProfilePictureURL(ctx context.Context, memberID string) (string, error) {
	member, err := m.memberRepo.FindByMember(ctx, &domain.MemberQuery{MemberID: &memberID})
	if err != nil {
		return "", err
	}
	if member.ProfilePicture == "" {
		return "", errprocess.Set("member has no profile picture")
	}
	return m.storage.PresignGetURL(ctx, member.ProfilePicture, presignExpiry)
}

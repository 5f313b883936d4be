package app

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatterbox_service/internal/chat/domain"
	chatrepo "chatterbox_service/internal/chat/repository"
	memberdomain "chatterbox_service/internal/member/domain"
	memberrepo "chatterbox_service/internal/member/repository"
	"chatterbox_service/pkg"
	errprocess "chatterbox_service/pkg/err"
)

// presignExpiry how long generated picture links stay valid
const presignExpiry = 24 * time.Hour

// ObjectStorage picture storage, satisfied by *database.MinIOClient
type ObjectStorage interface {
	UploadObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	RemoveObject(ctx context.Context, objectName string) error
	PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// ChatUseCase direct chat and group management
type ChatUseCase struct {
	chatRepo   chatrepo.ChatRepository
	memberRepo memberrepo.MemberRepository
	storage    ObjectStorage
}

// NewChatUseCase create ChatUseCase
func NewChatUseCase(
	chatRepo chatrepo.ChatRepository,
	memberRepo memberrepo.MemberRepository,
	storage ObjectStorage,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:   chatRepo,
		memberRepo: memberRepo,
		storage:    storage,
	}
}

// CreateOrGetChat return the direct chat between the two members,
// creating it on first contact. The bool reports whether it was created.
func (uc *ChatUseCase) CreateOrGetChat(ctx context.Context, memberID, otherID string) (*domain.Chat, bool, error) {
	if otherID == "" || otherID == memberID {
		return nil, false, errprocess.Set("invalid chat partner")
	}
	if _, err := uc.memberRepo.FindByMember(ctx, &memberdomain.MemberQuery{MemberID: &otherID}); err != nil {
		return nil, false, errprocess.Set("chat partner not found")
	}

	chat, err := uc.chatRepo.FindDirect(ctx, memberID, otherID)
	if err == nil {
		return chat, false, nil
	}
	if err != chatrepo.ErrChatNotFound {
		return nil, false, err
	}

	now := time.Now().UnixMilli()
	chat = &domain.Chat{
		ID:           uuid.NewString(),
		Participants: []string{memberID, otherID},
		IsGroup:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.chatRepo.Insert(ctx, chat); err != nil {
		return nil, false, err
	}
	return chat, true, nil
}

// GetUserChats all chats of a member, most recently active first
func (uc *ChatUseCase) GetUserChats(ctx context.Context, memberID string) ([]domain.Chat, error) {
	return uc.chatRepo.FindByParticipant(ctx, memberID)
}

// GetChat a single chat, participants only
func (uc *ChatUseCase) GetChat(ctx context.Context, chatID, memberID string) (*domain.Chat, error) {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(memberID) {
		return nil, errprocess.Set("member is not a participant of this chat")
	}
	return chat, nil
}

// CanAccess report whether the member may enter the chat room.
// A missing chat is a plain deny, not an error.
func (uc *ChatUseCase) CanAccess(ctx context.Context, chatID, memberID string) (bool, error) {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		if err == chatrepo.ErrChatNotFound {
			return false, nil
		}
		return false, err
	}
	return chat.HasParticipant(memberID), nil
}

// CreateGroup create a group chat with the creator as admin
func (uc *ChatUseCase) CreateGroup(ctx context.Context, adminID, name string, participantIDs []string) (*domain.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errprocess.Set("group name is required")
	}

	participants := []string{adminID}
	for _, id := range participantIDs {
		if id == adminID || pkg.Contains(participants, id) {
			continue
		}
		if _, err := uc.memberRepo.FindByMember(ctx, &memberdomain.MemberQuery{MemberID: &id}); err != nil {
			return nil, errprocess.Set("participant not found: " + id)
		}
		participants = append(participants, id)
	}
	if len(participants) < 2 {
		return nil, errprocess.Set("a group needs at least one other participant")
	}

	now := time.Now().UnixMilli()
	chat := &domain.Chat{
		ID:           uuid.NewString(),
		Participants: participants,
		IsGroup:      true,
		GroupName:    name,
		Admin:        adminID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.chatRepo.Insert(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// GroupsByAdmin groups the member administers
func (uc *ChatUseCase) GroupsByAdmin(ctx context.Context, memberID string) ([]domain.Chat, error) {
	return uc.chatRepo.FindGroupsByAdmin(ctx, memberID)
}

// RenameGroup change the group name, admin only
func (uc *ChatUseCase) RenameGroup(ctx context.Context, chatID, actorID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errprocess.Set("group name is required")
	}

	chat, err := uc.loadGroup(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsAdmin(actorID) {
		return errprocess.Set("only the group admin can rename the group")
	}
	return uc.chatRepo.UpdateGroupName(ctx, chatID, name, time.Now().UnixMilli())
}

// UpdateGroupPicture upload a new group picture and return a link,
// admin only
func (uc *ChatUseCase) UpdateGroupPicture(ctx context.Context, chatID, actorID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	chat, err := uc.loadGroup(ctx, chatID)
	if err != nil {
		return "", err
	}
	if !chat.IsAdmin(actorID) {
		return "", errprocess.Set("only the group admin can change the group picture")
	}

	objectName := "groups/" + chatID + "/" + uuid.NewString() + filepath.Ext(filename)
	if err := uc.storage.UploadObject(ctx, objectName, r, size, contentType); err != nil {
		return "", err
	}
	if err := uc.chatRepo.UpdateGroupPicture(ctx, chatID, objectName, time.Now().UnixMilli()); err != nil {
		return "", err
	}
	return uc.storage.PresignGetURL(ctx, objectName, presignExpiry)
}

// GroupPictureURL a fresh link to the current group picture
func (uc *ChatUseCase) GroupPictureURL(ctx context.Context, chatID, memberID string) (string, error) {
	chat, err := uc.GetChat(ctx, chatID, memberID)
	if err != nil {
		return "", err
	}
	if chat.GroupPicture == "" {
		return "", errprocess.Set("group has no picture")
	}
	return uc.storage.PresignGetURL(ctx, chat.GroupPicture, presignExpiry)
}

// AddParticipant any participant may add a member to a group
func (uc *ChatUseCase) AddParticipant(ctx context.Context, chatID, actorID, newMemberID string) error {
	chat, err := uc.loadGroup(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(actorID) {
		return errprocess.Set("actor is not a participant of this group")
	}
	if _, err := uc.memberRepo.FindByMember(ctx, &memberdomain.MemberQuery{MemberID: &newMemberID}); err != nil {
		return errprocess.Set("member not found: " + newMemberID)
	}
	return uc.chatRepo.AddParticipant(ctx, chatID, newMemberID, time.Now().UnixMilli())
}

// RemoveParticipant any participant may remove a member, the last
// participant cannot be removed
func (uc *ChatUseCase) RemoveParticipant(ctx context.Context, chatID, actorID, targetID string) error {
	chat, err := uc.loadGroup(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(actorID) {
		return errprocess.Set("actor is not a participant of this group")
	}
	if !chat.HasParticipant(targetID) {
		return errprocess.Set("member is not in this group")
	}
	if len(chat.Participants) <= 1 {
		return errprocess.Set("cannot remove the last participant")
	}
	return uc.chatRepo.RemoveParticipant(ctx, chatID, targetID, time.Now().UnixMilli())
}

func (uc *ChatUseCase) loadGroup(ctx context.Context, chatID string) (*domain.Chat, error) {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsGroup {
		return nil, errprocess.Set("chat is not a group")
	}
	return chat, nil
}

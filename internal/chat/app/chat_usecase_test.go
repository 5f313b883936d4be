package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"chatterbox_service/internal/chat/domain"
	chatrepo "chatterbox_service/internal/chat/repository"
	memberdomain "chatterbox_service/internal/member/domain"
	"chatterbox_service/pkg/logger"
)

func TestChatUseCase_CreateOrGetChat(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	other := &memberdomain.Member{MemberID: "bob", FirstName: "Bob"}

	t.Run("existing direct chat is returned", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		memberRepo := new(MockMemberRepository)

		existing := &domain.Chat{ID: "chat-1", Participants: []string{"alice", "bob"}}
		memberRepo.On("FindByMember", ctx, mock.Anything).Return(other, nil).Once()
		chatRepo.On("FindDirect", ctx, "alice", "bob").Return(existing, nil).Once()

		uc := NewChatUseCase(chatRepo, memberRepo, nil)
		chat, created, err := uc.CreateOrGetChat(ctx, "alice", "bob")

		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "chat-1", chat.ID)
		chatRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("first contact creates the chat", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		memberRepo := new(MockMemberRepository)

		memberRepo.On("FindByMember", ctx, mock.Anything).Return(other, nil).Once()
		chatRepo.On("FindDirect", ctx, "alice", "bob").Return(nil, chatrepo.ErrChatNotFound).Once()
		chatRepo.On("Insert", ctx, mock.Anything).Return(nil).Once()

		uc := NewChatUseCase(chatRepo, memberRepo, nil)
		chat, created, err := uc.CreateOrGetChat(ctx, "alice", "bob")

		assert.NoError(t, err)
		assert.True(t, created)
		assert.ElementsMatch(t, []string{"alice", "bob"}, chat.Participants)
		assert.False(t, chat.IsGroup)
		assert.NotEmpty(t, chat.ID)
	})

	t.Run("chat with yourself is refused", func(t *testing.T) {
		uc := NewChatUseCase(new(MockChatRepository), new(MockMemberRepository), nil)
		_, _, err := uc.CreateOrGetChat(ctx, "alice", "alice")
		assert.Error(t, err)
	})

	t.Run("unknown partner is refused", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		memberRepo := new(MockMemberRepository)
		memberRepo.On("FindByMember", ctx, mock.Anything).Return(nil, errors.New("no member found with given criteria")).Once()

		uc := NewChatUseCase(chatRepo, memberRepo, nil)
		_, _, err := uc.CreateOrGetChat(ctx, "alice", "ghost")

		assert.Error(t, err)
		chatRepo.AssertNotCalled(t, "FindDirect", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestChatUseCase_CanAccess(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	chat := &domain.Chat{ID: "chat-1", Participants: []string{"alice", "bob"}}

	t.Run("participant may enter", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "chat-1").Return(chat, nil).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), nil)
		ok, err := uc.CanAccess(ctx, "chat-1", "alice")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("outsider is denied", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "chat-1").Return(chat, nil).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), nil)
		ok, err := uc.CanAccess(ctx, "chat-1", "stranger")

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing chat is a plain deny", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "ghost").Return(nil, chatrepo.ErrChatNotFound).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), nil)
		ok, err := uc.CanAccess(ctx, "ghost", "alice")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestChatUseCase_CreateGroup(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	bob := &memberdomain.Member{MemberID: "bob"}
	carol := &memberdomain.Member{MemberID: "carol"}

	t.Run("creator becomes admin and participant", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		memberRepo := new(MockMemberRepository)

		memberRepo.On("FindByMember", ctx, mock.Anything).Return(bob, nil).Once()
		memberRepo.On("FindByMember", ctx, mock.Anything).Return(carol, nil).Once()
		chatRepo.On("Insert", ctx, mock.Anything).Return(nil).Once()

		uc := NewChatUseCase(chatRepo, memberRepo, nil)
		chat, err := uc.CreateGroup(ctx, "alice", "weekend plans", []string{"bob", "carol", "bob"})

		assert.NoError(t, err)
		assert.True(t, chat.IsGroup)
		assert.Equal(t, "alice", chat.Admin)
		assert.Equal(t, "weekend plans", chat.GroupName)
		// duplicates collapse, creator is always first
		assert.Equal(t, []string{"alice", "bob", "carol"}, chat.Participants)
	})

	t.Run("blank name is refused", func(t *testing.T) {
		uc := NewChatUseCase(new(MockChatRepository), new(MockMemberRepository), nil)
		_, err := uc.CreateGroup(ctx, "alice", "   ", []string{"bob"})
		assert.Error(t, err)
	})

	t.Run("a group of one is refused", func(t *testing.T) {
		uc := NewChatUseCase(new(MockChatRepository), new(MockMemberRepository), nil)
		_, err := uc.CreateGroup(ctx, "alice", "just me", []string{"alice"})
		assert.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "at least one other participant"))
	})
}

func TestChatUseCase_GroupManagement(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	group := func() *domain.Chat {
		return &domain.Chat{
			ID:           "group-1",
			IsGroup:      true,
			Admin:        "alice",
			Participants: []string{"alice", "bob"},
		}
	}

	t.Run("only the admin renames", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "group-1").Return(group(), nil).Twice()
		chatRepo.On("UpdateGroupName", ctx, "group-1", "new name", mock.Anything).Return(nil).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), nil)

		assert.NoError(t, uc.RenameGroup(ctx, "group-1", "alice", "new name"))
		assert.Error(t, uc.RenameGroup(ctx, "group-1", "bob", "sneaky name"))
		chatRepo.AssertExpectations(t)
	})

	t.Run("rename refuses a direct chat", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		direct := &domain.Chat{ID: "chat-1", Participants: []string{"alice", "bob"}}
		chatRepo.On("FindByID", ctx, "chat-1").Return(direct, nil).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), nil)
		assert.Error(t, uc.RenameGroup(ctx, "chat-1", "alice", "name"))
	})

	t.Run("any participant adds a member", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		memberRepo := new(MockMemberRepository)
		carol := &memberdomain.Member{MemberID: "carol"}

		chatRepo.On("FindByID", ctx, "group-1").Return(group(), nil).Once()
		memberRepo.On("FindByMember", ctx, mock.Anything).Return(carol, nil).Once()
		chatRepo.On("AddParticipant", ctx, "group-1", "carol", mock.Anything).Return(nil).Once()

		uc := NewChatUseCase(chatRepo, memberRepo, nil)
		assert.NoError(t, uc.AddParticipant(ctx, "group-1", "bob", "carol"))
		chatRepo.AssertExpectations(t)
	})

	t.Run("outsider cannot add members", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "group-1").Return(group(), nil).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), nil)
		assert.Error(t, uc.AddParticipant(ctx, "group-1", "stranger", "carol"))
		chatRepo.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("participant removes a member", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "group-1").Return(group(), nil).Once()
		chatRepo.On("RemoveParticipant", ctx, "group-1", "bob", mock.Anything).Return(nil).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), nil)
		assert.NoError(t, uc.RemoveParticipant(ctx, "group-1", "alice", "bob"))
		chatRepo.AssertExpectations(t)
	})

	t.Run("the last participant stays", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		lonely := &domain.Chat{
			ID:           "group-1",
			IsGroup:      true,
			Admin:        "alice",
			Participants: []string{"alice"},
		}
		chatRepo.On("FindByID", ctx, "group-1").Return(lonely, nil).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), nil)
		err := uc.RemoveParticipant(ctx, "group-1", "alice", "alice")

		assert.Error(t, err)
		assert.Equal(t, "cannot remove the last participant", err.Error())
	})

	t.Run("group picture upload is admin only", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		storage := new(MockObjectStorage)

		chatRepo.On("FindByID", ctx, "group-1").Return(group(), nil).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), storage)
		_, err := uc.UpdateGroupPicture(ctx, "group-1", "bob", "pic.png", strings.NewReader("img"), 3, "image/png")

		assert.Error(t, err)
		storage.AssertNotCalled(t, "UploadObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin uploads and gets a link", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		storage := new(MockObjectStorage)

		chatRepo.On("FindByID", ctx, "group-1").Return(group(), nil).Once()
		storage.On("UploadObject", ctx, mock.Anything, mock.Anything, int64(3), "image/png").Return(nil).Once()
		chatRepo.On("UpdateGroupPicture", ctx, "group-1", mock.Anything, mock.Anything).Return(nil).Once()
		storage.On("PresignGetURL", ctx, mock.Anything, presignExpiry).Return("https://minio/pic", nil).Once()

		uc := NewChatUseCase(chatRepo, new(MockMemberRepository), storage)
		url, err := uc.UpdateGroupPicture(ctx, "group-1", "alice", "pic.png", strings.NewReader("img"), 3, "image/png")

		assert.NoError(t, err)
		assert.Equal(t, "https://minio/pic", url)
		storage.AssertExpectations(t)
	})
}

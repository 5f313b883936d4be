package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"chatterbox_service/internal/chat/domain"
	chatrepo "chatterbox_service/internal/chat/repository"
	memberdomain "chatterbox_service/internal/member/domain"
	"chatterbox_service/pkg/logger"
)

func newWSFixture(chatRepo *MockChatRepository, msgRepo *MockMessageRepository, memberRepo *MockMemberRepository) (*ChatWebsocketHandler, *Hub) {
	hub := NewHub()
	chatUC := NewChatUseCase(chatRepo, memberRepo, nil)
	messageUC := NewMessageUseCase(chatRepo, msgRepo, memberRepo, nil)
	return NewChatWebsocketHandler(hub, chatUC, messageUC), hub
}

func frame(t *testing.T, req domain.WSRequest) []byte {
	t.Helper()
	b, err := json.Marshal(req)
	assert.NoError(t, err)
	return b
}

func TestWebsocketHandler_JoinChat(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	chat := &domain.Chat{ID: "chat-1", Participants: []string{"alice", "bob"}}

	t.Run("participant joins the room", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "chat-1").Return(chat, nil).Once()

		h, hub := newWSFixture(chatRepo, new(MockMessageRepository), new(MockMemberRepository))
		alice := NewClient("alice", &fakeConn{})
		hub.Register(alice)

		h.textMessageAction(ctx, alice, frame(t, domain.WSRequest{Event: domain.EventJoinChat, ChatID: "chat-1"}))

		assert.True(t, hub.InRoom(alice, domain.RoomForChat("chat-1")))
		assert.Empty(t, drain(alice))
	})

	t.Run("denied join is silent", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "chat-1").Return(chat, nil).Once()

		h, hub := newWSFixture(chatRepo, new(MockMessageRepository), new(MockMemberRepository))
		mallory := NewClient("mallory", &fakeConn{})
		hub.Register(mallory)

		h.textMessageAction(ctx, mallory, frame(t, domain.WSRequest{Event: domain.EventJoinChat, ChatID: "chat-1"}))

		assert.False(t, hub.InRoom(mallory, domain.RoomForChat("chat-1")))
		// no reply at all, the chat's existence is not disclosed
		assert.Empty(t, drain(mallory))
	})

	t.Run("missing chat is silent too", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "ghost").Return(nil, chatrepo.ErrChatNotFound).Once()

		h, hub := newWSFixture(chatRepo, new(MockMessageRepository), new(MockMemberRepository))
		alice := NewClient("alice", &fakeConn{})
		hub.Register(alice)

		h.textMessageAction(ctx, alice, frame(t, domain.WSRequest{Event: domain.EventJoinChat, ChatID: "ghost"}))

		assert.False(t, hub.InRoom(alice, domain.RoomForChat("ghost")))
		assert.Empty(t, drain(alice))
	})
}

func TestWebsocketHandler_SendMessage(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	chat := &domain.Chat{ID: "chat-1", Participants: []string{"alice", "bob"}}
	sender := &memberdomain.Member{MemberID: "alice", FirstName: "Alice", Email: "alice@example.com"}

	t.Run("message fans out to the room, ack goes to the sender", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		msgRepo := new(MockMessageRepository)
		memberRepo := new(MockMemberRepository)

		// joinChat check plus the pipeline lookup
		chatRepo.On("FindByID", ctx, "chat-1").Return(chat, nil)
		msgRepo.On("Insert", ctx, mock.Anything).Return(nil).Once()
		chatRepo.On("SetLastMessage", ctx, "chat-1", mock.Anything, mock.Anything).Return(nil).Once()
		memberRepo.On("FindByMember", ctx, mock.Anything).Return(sender, nil).Once()

		h, hub := newWSFixture(chatRepo, msgRepo, memberRepo)
		alice := NewClient("alice", &fakeConn{})
		bob := NewClient("bob", &fakeConn{})
		hub.Register(alice)
		hub.Register(bob)
		drain(alice)
		drain(bob)
		room := domain.RoomForChat("chat-1")
		hub.Join(alice, room)
		hub.Join(bob, room)

		h.textMessageAction(ctx, alice, frame(t, domain.WSRequest{
			Event: domain.EventSendMessage, ChatID: "chat-1", Sender: "alice", Content: "hello",
		}))

		// the sender hears both the room copy and the ack
		aliceEvents := drain(alice)
		assert.Len(t, aliceEvents, 2)
		assert.Equal(t, domain.EventMessage, aliceEvents[0].Event)
		assert.Equal(t, domain.EventMessageSent, aliceEvents[1].Event)
		// the ack is the formatted message payload, not a bare id
		assert.Equal(t, aliceEvents[0].Payload, aliceEvents[1].Payload)
		ack := aliceEvents[1].Payload.(*domain.MessagePayload)
		assert.Equal(t, "alice", ack.Sender)
		assert.Equal(t, "hello", ack.Content)
		assert.Equal(t, "chat-1", ack.ChatID)

		bobEvents := drain(bob)
		assert.Len(t, bobEvents, 1)
		assert.Equal(t, domain.EventMessage, bobEvents[0].Event)
		payload := bobEvents[0].Payload.(*domain.MessagePayload)
		assert.Equal(t, "alice", payload.Sender)
		assert.Equal(t, "Alice", payload.SenderName)
		assert.Equal(t, "hello", payload.Content)
	})

	t.Run("claimed sender must match the connection identity", func(t *testing.T) {
		h, hub := newWSFixture(new(MockChatRepository), new(MockMessageRepository), new(MockMemberRepository))
		mallory := NewClient("mallory", &fakeConn{})
		hub.Register(mallory)

		h.textMessageAction(ctx, mallory, frame(t, domain.WSRequest{
			Event: domain.EventSendMessage, ChatID: "chat-1", Sender: "alice", Content: "hi",
		}))

		events := drain(mallory)
		assert.Len(t, events, 1)
		assert.Equal(t, domain.EventError, events[0].Event)
		assert.Equal(t, domain.ErrorPayload{Message: "Unauthorized"}, events[0].Payload)
	})

	t.Run("a frame without a sender is rejected before any lookup", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		msgRepo := new(MockMessageRepository)

		h, hub := newWSFixture(chatRepo, msgRepo, new(MockMemberRepository))
		alice := NewClient("alice", &fakeConn{})
		hub.Register(alice)

		h.textMessageAction(ctx, alice, frame(t, domain.WSRequest{
			Event: domain.EventSendMessage, ChatID: "chat-1", Content: "hi",
		}))

		events := drain(alice)
		assert.Len(t, events, 1)
		assert.Equal(t, domain.ErrorPayload{Message: "Unauthorized"}, events[0].Payload)
		chatRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		msgRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("pipeline failure surfaces as an error event", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindByID", ctx, "chat-1").Return(nil, chatrepo.ErrChatNotFound).Once()

		h, hub := newWSFixture(chatRepo, new(MockMessageRepository), new(MockMemberRepository))
		alice := NewClient("alice", &fakeConn{})
		hub.Register(alice)

		h.textMessageAction(ctx, alice, frame(t, domain.WSRequest{
			Event: domain.EventSendMessage, ChatID: "chat-1", Sender: "alice", Content: "hello",
		}))

		events := drain(alice)
		assert.Len(t, events, 1)
		assert.Equal(t, domain.EventError, events[0].Event)
		chatRepo.AssertExpectations(t)
	})
}

func TestWebsocketHandler_Typing(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	h, hub := newWSFixture(new(MockChatRepository), new(MockMessageRepository), new(MockMemberRepository))
	alice := NewClient("alice", &fakeConn{})
	bob := NewClient("bob", &fakeConn{})
	hub.Register(alice)
	hub.Register(bob)
	drain(alice)
	drain(bob)
	room := domain.RoomForChat("chat-1")
	hub.Join(alice, room)
	hub.Join(bob, room)

	h.textMessageAction(ctx, alice, frame(t, domain.WSRequest{
		Event: domain.EventTyping, ChatID: "chat-1", IsTyping: true,
	}))

	// the typer never hears their own indicator
	assert.Empty(t, drain(alice))

	events := drain(bob)
	assert.Len(t, events, 1)
	assert.Equal(t, domain.EventTyping, events[0].Event)
	assert.Equal(t, domain.TypingPayload{ChatID: "chat-1", UserID: "alice", IsTyping: true}, events[0].Payload)
}

func TestWebsocketHandler_BadFrames(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	h, hub := newWSFixture(new(MockChatRepository), new(MockMessageRepository), new(MockMemberRepository))
	alice := NewClient("alice", &fakeConn{})
	hub.Register(alice)

	t.Run("invalid json", func(t *testing.T) {
		h.textMessageAction(ctx, alice, []byte("{not json"))
		events := drain(alice)
		assert.Len(t, events, 1)
		assert.Equal(t, domain.EventError, events[0].Event)
	})

	t.Run("unknown event", func(t *testing.T) {
		h.textMessageAction(ctx, alice, frame(t, domain.WSRequest{Event: "teleport"}))
		events := drain(alice)
		assert.Len(t, events, 1)
		assert.Equal(t, domain.ErrorPayload{Message: "unknown event"}, events[0].Payload)
	})
}

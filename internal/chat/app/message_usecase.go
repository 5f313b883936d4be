package app

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"chatterbox_service/internal/chat/domain"
	chatrepo "chatterbox_service/internal/chat/repository"
	memberdomain "chatterbox_service/internal/member/domain"
	memberrepo "chatterbox_service/internal/member/repository"
	errprocess "chatterbox_service/pkg/err"
	"chatterbox_service/pkg/logger"
)

// EventWriter the message firehose sink, satisfied by *kafka.Writer
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// MessageUseCase message ingestion and history
type MessageUseCase struct {
	chatRepo   chatrepo.ChatRepository
	msgRepo    chatrepo.MessageRepository
	memberRepo memberrepo.MemberRepository
	// events optional, nil disables firehose publishing
	events EventWriter
}

// NewMessageUseCase create MessageUseCase
func NewMessageUseCase(
	chatRepo chatrepo.ChatRepository,
	msgRepo chatrepo.MessageRepository,
	memberRepo memberrepo.MemberRepository,
	events EventWriter,
) *MessageUseCase {
	return &MessageUseCase{
		chatRepo:   chatRepo,
		msgRepo:    msgRepo,
		memberRepo: memberRepo,
		events:     events,
	}
}

// Execute validate, persist and format one inbound message.
// The message insert and the chat preview update are two separate
// writes, a concurrent send may overwrite the preview and the newer
// write wins.
func (uc *MessageUseCase) Execute(ctx context.Context, chatID, senderID, content string) (*domain.MessagePayload, error) {
	if chatID == "" {
		return nil, errprocess.Set("chat id is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errprocess.Set("message content is empty")
	}

	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, errprocess.Set("sender is not a participant of this chat")
	}

	// timestamps are assigned server side, client clocks are not trusted
	now := time.Now().UnixMilli()
	msg := &domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Sender:    senderID,
		Content:   content,
		Timestamp: now,
	}
	if err := uc.msgRepo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	if err := uc.chatRepo.SetLastMessage(ctx, chatID, &domain.LastMessage{
		MessageID: msg.ID,
		Sender:    msg.Sender,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}, now); err != nil {
		return nil, err
	}

	sender, err := uc.memberRepo.FindByMember(ctx, &memberdomain.MemberQuery{MemberID: &senderID})
	if err != nil {
		return nil, err
	}

	payload := &domain.MessagePayload{
		ID:          msg.ID,
		Sender:      msg.Sender,
		SenderName:  sender.DisplayName(),
		SenderEmail: sender.Email,
		Content:     msg.Content,
		Timestamp:   msg.Timestamp,
		ChatID:      msg.ChatID,
	}

	uc.publish(ctx, msg)

	return payload, nil
}

// History messages of a chat visible to the member, oldest first
func (uc *MessageUseCase) History(ctx context.Context, chatID, memberID string, before int64, limit int64) ([]domain.Message, error) {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(memberID) {
		return nil, errprocess.Set("member is not a participant of this chat")
	}
	return uc.msgRepo.FindByChat(ctx, chatID, before, limit)
}

// publish best effort, a broker outage never fails the send
func (uc *MessageUseCase) publish(ctx context.Context, msg *domain.Message) {
	if uc.events == nil {
		return
	}

	b, err := json.Marshal(domain.MessageEvent{
		MessageID: msg.ID,
		ChatID:    msg.ChatID,
		Sender:    msg.Sender,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	})
	if err != nil {
		logger.Log.Error("marshal message event failed", zap.Error(err))
		return
	}

	if err := uc.events.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.ChatID),
		Value: b,
	}); err != nil {
		logger.Log.Warn("publish message event failed",
			zap.String("messageID", msg.ID), zap.Error(err))
	}
}

package app

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"

	"chatterbox_service/internal/chat/domain"
	memberdomain "chatterbox_service/internal/member/domain"
)

// MockChatRepository Mock ChatRepository
type MockChatRepository struct {
	mock.Mock
}

// Insert moke insert chat
func (m *MockChatRepository) Insert(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

// FindByID moke find chat by id
func (m *MockChatRepository) FindByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindDirect moke find one direct chat
func (m *MockChatRepository) FindDirect(ctx context.Context, memberA, memberB string) (*domain.Chat, error) {
	args := m.Called(ctx, memberA, memberB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByParticipant moke find chats by member
func (m *MockChatRepository) FindByParticipant(ctx context.Context, memberID string) ([]domain.Chat, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindGroupsByAdmin moke find groups by admin
func (m *MockChatRepository) FindGroupsByAdmin(ctx context.Context, memberID string) ([]domain.Chat, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateGroupName moke update group name
func (m *MockChatRepository) UpdateGroupName(ctx context.Context, chatID, name string, now int64) error {
	args := m.Called(ctx, chatID, name, now)
	return args.Error(0)
}

// UpdateGroupPicture moke update group picture
func (m *MockChatRepository) UpdateGroupPicture(ctx context.Context, chatID, objectName string, now int64) error {
	args := m.Called(ctx, chatID, objectName, now)
	return args.Error(0)
}

// AddParticipant moke add participant
func (m *MockChatRepository) AddParticipant(ctx context.Context, chatID, memberID string, now int64) error {
	args := m.Called(ctx, chatID, memberID, now)
	return args.Error(0)
}

// RemoveParticipant moke remove participant
func (m *MockChatRepository) RemoveParticipant(ctx context.Context, chatID, memberID string, now int64) error {
	args := m.Called(ctx, chatID, memberID, now)
	return args.Error(0)
}

// SetLastMessage moke set last message preview
func (m *MockChatRepository) SetLastMessage(ctx context.Context, chatID string, last *domain.LastMessage, now int64) error {
	args := m.Called(ctx, chatID, last, now)
	return args.Error(0)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert moke insert msg
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByChat moke find msgs by chat
func (m *MockMessageRepository) FindByChat(ctx context.Context, chatID string, before int64, limit int64) ([]domain.Message, error) {
	args := m.Called(ctx, chatID, before, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMemberRepository Mock member repository used by the chat usecases
type MockMemberRepository struct {
	mock.Mock
}

// CreateMember moke create member
func (m *MockMemberRepository) CreateMember(ctx context.Context, member *memberdomain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// UpdateMemberStatus moke update status
func (m *MockMemberRepository) UpdateMemberStatus(ctx context.Context, member *memberdomain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// UpdateProfile moke update profile
func (m *MockMemberRepository) UpdateProfile(ctx context.Context, memberID, firstName, lastName string) error {
	args := m.Called(ctx, memberID, firstName, lastName)
	return args.Error(0)
}

// UpdatePassword moke update password
func (m *MockMemberRepository) UpdatePassword(ctx context.Context, memberID, hashedPassword string) error {
	args := m.Called(ctx, memberID, hashedPassword)
	return args.Error(0)
}

// UpdateProfilePicture moke update picture
func (m *MockMemberRepository) UpdateProfilePicture(ctx context.Context, memberID, objectName string) error {
	args := m.Called(ctx, memberID, objectName)
	return args.Error(0)
}

// UpdateLastLogin moke update last login
func (m *MockMemberRepository) UpdateLastLogin(ctx context.Context, memberID string, at time.Time) error {
	args := m.Called(ctx, memberID, at)
	return args.Error(0)
}

// FindByMember moke find member
func (m *MockMemberRepository) FindByMember(ctx context.Context, memberQuery *memberdomain.MemberQuery) (*memberdomain.Member, error) {
	args := m.Called(ctx, memberQuery)
	if args.Get(0) != nil {
		return args.Get(0).(*memberdomain.Member), args.Error(1)
	}
	return nil, args.Error(1)
}

// SearchMembers moke search members
func (m *MockMemberRepository) SearchMembers(ctx context.Context, keyword, excludeMemberID string, limit int) ([]memberdomain.Member, error) {
	args := m.Called(ctx, keyword, excludeMemberID, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]memberdomain.Member), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEventWriter Mock EventWriter
type MockEventWriter struct {
	mock.Mock
}

// WriteMessages moke publish to the firehose
func (m *MockEventWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

// MockObjectStorage Mock ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

// UploadObject moke upload
func (m *MockObjectStorage) UploadObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, r, size, contentType)
	return args.Error(0)
}

// RemoveObject moke remove
func (m *MockObjectStorage) RemoveObject(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

// PresignGetURL moke presign
func (m *MockObjectStorage) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

// fakeConn in-memory wsConn for hub and client tests
type fakeConn struct {
	mu     sync.Mutex
	writes []interface{}
	closed bool
}

func (f *fakeConn) ReadMessage() (int, []byte, error) { return 0, nil, io.EOF }

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, v)
	return nil
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error { return nil }
func (f *fakeConn) SetReadDeadline(t time.Time) error               { return nil }
func (f *fakeConn) SetWriteDeadline(t time.Time) error              { return nil }
func (f *fakeConn) SetPongHandler(h func(string) error)             {}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

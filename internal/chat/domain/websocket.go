package domain

// RoomID identifies a fanout room, one room per chat
type RoomID string

// RoomForChat the room a chat broadcasts on
func RoomForChat(chatID string) RoomID {
	return RoomID(chatID)
}

// ChatID the chat backing this room
func (r RoomID) ChatID() string {
	return string(r)
}

// client -> server events
const (
	EventJoinChat    = "joinChat"
	EventLeaveChat   = "leaveChat"
	EventSendMessage = "sendMessage"
	EventTyping      = "typing"
)

// server -> client events
const (
	EventMessage     = "message"
	EventMessageSent = "messageSent"
	EventUserOnline  = "userOnline"
	EventUserOffline = "userOffline"
	EventError       = "error"
)

// WSRequest inbound websocket frame, Event selects which fields apply
type WSRequest struct {
	Event    string `json:"event"`
	ChatID   string `json:"chatId,omitempty"`
	Sender   string `json:"sender,omitempty"`
	Content  string `json:"content,omitempty"`
	IsTyping bool   `json:"isTyping,omitempty"`
}

// WSEvent outbound websocket frame
type WSEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// MessagePayload the formatted message delivered to room members
type MessagePayload struct {
	ID          string `json:"_id"`
	Sender      string `json:"sender"`
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	Content     string `json:"content"`
	Timestamp   int64  `json:"timestamp"`
	ChatID      string `json:"chatId"`
}

// TypingPayload typing indicator relayed to other room members
type TypingPayload struct {
	ChatID   string `json:"chatId"`
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// PresencePayload userOnline/userOffline notification
type PresencePayload struct {
	UserID string `json:"userId"`
}

// ErrorPayload error event body
type ErrorPayload struct {
	Message string `json:"message"`
}

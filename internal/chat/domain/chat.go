package domain

import "chatterbox_service/pkg"

// LastMessage denormalized preview of the newest message in a chat
type LastMessage struct {
	MessageID string `bson:"message_id" json:"messageId"`
	Sender    string `bson:"sender" json:"sender"`
	Content   string `bson:"content" json:"content"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

// Chat a direct or group conversation document
type Chat struct {
	ID           string       `bson:"_id" json:"id"`
	Participants []string     `bson:"participants" json:"participants"`
	IsGroup      bool         `bson:"is_group" json:"isGroup"`
	GroupName    string       `bson:"group_name,omitempty" json:"groupName,omitempty"`
	GroupPicture string       `bson:"group_picture,omitempty" json:"groupPicture,omitempty"`
	Admin        string       `bson:"admin,omitempty" json:"admin,omitempty"`
	LastMessage  *LastMessage `bson:"last_message,omitempty" json:"lastMessage,omitempty"`
	CreatedAt    int64        `bson:"created_at" json:"createdAt"`
	UpdatedAt    int64        `bson:"updated_at" json:"updatedAt"`
}

// HasParticipant report whether memberID belongs to the chat
func (c *Chat) HasParticipant(memberID string) bool {
	return pkg.Contains(c.Participants, memberID)
}

// IsAdmin report whether memberID is the group admin
func (c *Chat) IsAdmin(memberID string) bool {
	return c.IsGroup && c.Admin == memberID
}

// Message an immutable chat message, timestamp is unix ms
type Message struct {
	ID        string `bson:"_id" json:"id"`
	ChatID    string `bson:"chat_id" json:"chatId"`
	Sender    string `bson:"sender" json:"sender"`
	Content   string `bson:"content" json:"content"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

// MessageEvent the record published to the message firehose topic
type MessageEvent struct {
	MessageID string `json:"message_id"`
	ChatID    string `json:"chat_id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

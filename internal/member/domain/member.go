package domain

import (
	"time"

	"chatterbox_service/pkg/encrypt"
)

// MemberStatus member account state
type MemberStatus int

// 状态: 0=offline, 1=online, 2=ban, 3=delete
const (
	// MemberStatusOffLine member is offline
	MemberStatusOffLine MemberStatus = iota
	// MemberStatusOnLine member is online
	MemberStatusOnLine
	// MemberStatusBan member is banned
	MemberStatusBan
	// MemberStatusDelete member is deleted
	MemberStatusDelete
)

// Member a registered identity
type Member struct {
	ID             int64
	MemberID       string
	FirstName      string
	LastName       string
	Email          string
	Password       string
	ProfilePicture string
	Status         MemberStatus
	CreatedAt      time.Time
	LastLoginAt    time.Time
}

// MemberSession login session stored in redis
type MemberSession struct {
	Token        string    `json:"Token"`
	MemberID     string    `json:"MemberID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch verify the given password against the stored hash
func (m *Member) IsPasswordMatch(inputPwd string) error {
	err := encrypt.CheckPassword(m.Password, inputPwd)
	return err
}

// DisplayName full name shown to other participants
func (m *Member) DisplayName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// IsExpired check the session is past its expiry
func (s *MemberSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// MemberQuery join conditions are used to query members
type MemberQuery struct {
	ID       *int64  `db:"id"`
	MemberID *string `db:"member_id"`
	Email    *string `db:"email"`
}

package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

const (
	DefaultMaxMessageLength = 5000
	DefaultRecentLimit      = 50
)

// Message is a persisted chat message. Only the edit and delete flags change after creation.
type Message struct {
	ID        string     `json:"id"`
	ProjectID RoomID     `json:"projectId"`
	SenderID  UserID     `json:"senderId"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	Edited    bool       `json:"edited"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	Deleted   bool       `json:"deleted"`
}

// NewMessage trims content and stamps the message with the server time.
// Blank content yields ErrEmptyContent, which callers drop silently.
func NewMessage(room RoomID, sender UserID, content string, maxLen int, now time.Time) (Message, error) {
	content, err := normalizeContent(content, maxLen)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:        NewID(now),
		ProjectID: room,
		SenderID:  sender,
		Content:   content,
		CreatedAt: now.UTC(),
	}, nil
}

func (m *Message) Edit(content string, maxLen int, at time.Time) error {
	content, err := normalizeContent(content, maxLen)
	if err != nil {
		return err
	}
	at = at.UTC()
	m.Content = content
	m.Edited = true
	m.EditedAt = &at
	return nil
}

func (m *Message) Delete() { m.Deleted = true }

func normalizeContent(content string, maxLen int) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if maxLen > 0 && utf8.RuneCountInString(content) > maxLen {
		return "", ErrContentTooLong
	}
	return content, nil
}

// NewID returns a lexicographically time-ordered id.
func NewID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}

// Sender carries the display fields resolved for an author.
type Sender struct {
	ID     UserID `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func SenderOf(u User) Sender {
	return Sender{ID: u.ID, Name: u.DisplayName(), Avatar: u.Avatar}
}

// MessageView is a message with its sender resolved, as sent to clients.
type MessageView struct {
	Message
	Sender Sender `json:"sender"`
}

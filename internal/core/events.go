package core

import (
	"encoding/json"

	"github.com/dkeye/Collab/internal/domain"
)

// Outbound event types.
const (
	EventOnlineUsers     = "online_users"
	EventRecentMessages  = "recent_messages"
	EventNewMessage      = "new_message"
	EventMessageUpdated  = "message_updated"
	EventMessageDeleted  = "message_deleted"
	EventUserTyping      = "user_typing"
	EventUserStopTyping  = "user_stop_typing"
	EventError           = "error"
	EventNewNotification = "new_notification"
	EventPong            = "pong"
	EventWhoAmI          = "whoami"
)

type OnlineUsersEvent struct {
	Type      string          `json:"type"`
	ProjectID domain.RoomID   `json:"projectId"`
	Users     []PresenceEntry `json:"users"`
}

func NewOnlineUsersEvent(room domain.RoomID, users []PresenceEntry) OnlineUsersEvent {
	if users == nil {
		users = []PresenceEntry{}
	}
	return OnlineUsersEvent{Type: EventOnlineUsers, ProjectID: room, Users: users}
}

type RecentMessagesEvent struct {
	Type      string               `json:"type"`
	ProjectID domain.RoomID        `json:"projectId"`
	Messages  []domain.MessageView `json:"messages"`
}

func NewRecentMessagesEvent(room domain.RoomID, msgs []domain.MessageView) RecentMessagesEvent {
	if msgs == nil {
		msgs = []domain.MessageView{}
	}
	return RecentMessagesEvent{Type: EventRecentMessages, ProjectID: room, Messages: msgs}
}

// MessageEvent carries new_message and message_updated.
type MessageEvent struct {
	Type    string             `json:"type"`
	Message domain.MessageView `json:"message"`
}

func NewMessageEvent(kind string, msg domain.MessageView) MessageEvent {
	return MessageEvent{Type: kind, Message: msg}
}

type MessageDeletedEvent struct {
	Type      string        `json:"type"`
	ProjectID domain.RoomID `json:"projectId"`
	MessageID string        `json:"messageId"`
}

type TypingEvent struct {
	Type      string        `json:"type"`
	ProjectID domain.RoomID `json:"projectId"`
	UserID    domain.UserID `json:"userId"`
	UserName  string        `json:"userName,omitempty"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message}
}

type NotificationEvent struct {
	Type         string                  `json:"type"`
	Notification domain.NotificationView `json:"notification"`
}

type WhoAmIEvent struct {
	Type         string          `json:"type"`
	UserID       domain.UserID   `json:"userId"`
	UserName     string          `json:"userName"`
	ConnectionID SessionID       `json:"connectionId"`
	Projects     []domain.RoomID `json:"projects"`
}

// Encode turns an event into a frame.
func Encode(v any) (Frame, error) {
	return json.Marshal(v)
}

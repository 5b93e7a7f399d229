//go:generate go run go.uber.org/mock/mockgen -source=store_iface.go -destination=../mocks/mock_store.go -package=mocks
package core

import (
	"context"
	"time"

	"github.com/dkeye/Collab/internal/domain"
)

// ProjectStore resolves project membership. Owned by the CRUD layer.
type ProjectStore interface {
	GetProject(ctx context.Context, id domain.RoomID) (domain.Project, error)
}

// UserDirectory resolves display fields and the active flag of an account.
type UserDirectory interface {
	GetUser(ctx context.Context, id domain.UserID) (domain.User, error)
}

// MessageStore is the durable chat history.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg domain.Message) error
	GetMessage(ctx context.Context, id string) (domain.Message, error)
	UpdateMessage(ctx context.Context, msg domain.Message) error
	// RecentMessages returns at most limit non-deleted messages of room, oldest first.
	RecentMessages(ctx context.Context, room domain.RoomID, limit int) ([]domain.Message, error)
	// MessagesBefore pages backwards from cursor ("" starts at the newest message).
	// The returned cursor is empty once history is exhausted.
	MessagesBefore(ctx context.Context, room domain.RoomID, cursor string, limit int) ([]domain.Message, string, error)
}

// NotificationStore is the durable notification record.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n domain.Notification) error
	ListNotifications(ctx context.Context, recipient domain.UserID, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, recipient domain.UserID, id string, at time.Time) (domain.Notification, error)
}

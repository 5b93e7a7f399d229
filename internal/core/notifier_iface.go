//go:generate go run go.uber.org/mock/mockgen -source=notifier_iface.go -destination=../mocks/mock_notifier.go -package=mocks
package core

import (
	"context"

	"github.com/dkeye/Collab/internal/domain"
)

// Notifier is the single entry point business producers use to notify a user.
type Notifier interface {
	Dispatch(ctx context.Context, evt domain.NotificationEvent) (domain.Notification, error)
}

// UserDeliverer pushes a frame to every connection subscribed to a user's channel.
type UserDeliverer interface {
	DeliverToUser(uid domain.UserID, frame Frame) PublishResult
}

package domain

import "time"

type NotificationType string

const (
	NotificationPaymentReceived     NotificationType = "payment_received"
	NotificationPaymentReleased     NotificationType = "payment_released"
	NotificationPaymentRefunded     NotificationType = "payment_refunded"
	NotificationApplicationReceived NotificationType = "application_received"
	NotificationApplicationAccepted NotificationType = "application_accepted"
	NotificationApplicationRejected NotificationType = "application_rejected"
	NotificationMention             NotificationType = "mention"
	NotificationTaskAssigned        NotificationType = "task_assigned"
	NotificationDeadline            NotificationType = "deadline_approaching"
	NotificationMilestoneCompleted  NotificationType = "milestone_completed"
	NotificationProjectUpdate       NotificationType = "project_update"
)

var notificationTypes = map[NotificationType]struct{}{
	NotificationPaymentReceived:     {},
	NotificationPaymentReleased:     {},
	NotificationPaymentRefunded:     {},
	NotificationApplicationReceived: {},
	NotificationApplicationAccepted: {},
	NotificationApplicationRejected: {},
	NotificationMention:             {},
	NotificationTaskAssigned:        {},
	NotificationDeadline:            {},
	NotificationMilestoneCompleted:  {},
	NotificationProjectUpdate:       {},
}

// Valid reports whether t belongs to the closed set of notification types.
func (t NotificationType) Valid() bool {
	_, ok := notificationTypes[t]
	return ok
}

// NotificationEvent is what a business producer hands to the dispatcher.
// SenderID is empty for system events such as deadlines.
type NotificationEvent struct {
	RecipientID UserID           `json:"recipientId" validate:"required"`
	SenderID    UserID           `json:"senderId,omitempty"`
	Type        NotificationType `json:"type" validate:"required,notification_type"`
	Title       string           `json:"title" validate:"required,max=200"`
	Message     string           `json:"message" validate:"required,max=2000"`
	Link        string           `json:"link,omitempty" validate:"omitempty,max=2048"`
	ProjectID   RoomID           `json:"projectId,omitempty"`
	TaskID      string           `json:"taskId,omitempty"`
}

type Notification struct {
	ID          string           `json:"id"`
	RecipientID UserID           `json:"recipientId"`
	SenderID    UserID           `json:"senderId,omitempty"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Link        string           `json:"link,omitempty"`
	ProjectID   RoomID           `json:"projectId,omitempty"`
	TaskID      string           `json:"taskId,omitempty"`
	Read        bool             `json:"read"`
	ReadAt      *time.Time       `json:"readAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func NewNotification(evt NotificationEvent, now time.Time) Notification {
	return Notification{
		ID:          NewID(now),
		RecipientID: evt.RecipientID,
		SenderID:    evt.SenderID,
		Type:        evt.Type,
		Title:       evt.Title,
		Message:     evt.Message,
		Link:        evt.Link,
		ProjectID:   evt.ProjectID,
		TaskID:      evt.TaskID,
		CreatedAt:   now.UTC(),
	}
}

func (n *Notification) MarkRead(at time.Time) {
	if n.Read {
		return
	}
	at = at.UTC()
	n.Read = true
	n.ReadAt = &at
}

// NotificationView is a notification with its sender resolved, as pushed to clients.
type NotificationView struct {
	Notification
	Sender *Sender `json:"sender,omitempty"`
}

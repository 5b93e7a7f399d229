package domain

import "errors"

// Authentication: the handshake is refused, no connection exists.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
)

// Authorization and lookup: reported to the caller only, the connection stays open.
var (
	ErrNotProjectMember     = errors.New("not a project member")
	ErrNotJoined            = errors.New("not joined to project")
	ErrNotMessageSender     = errors.New("not the message sender")
	ErrProjectNotFound      = errors.New("project not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrRateLimited          = errors.New("rate limited")
	ErrUnknownSession       = errors.New("unknown session")
)

// Validation.
var (
	ErrEmptyContent        = errors.New("empty content")
	ErrContentTooLong      = errors.New("content too long")
	ErrInvalidNotification = errors.New("invalid notification")
	ErrBadPayload          = errors.New("bad payload")
)

// ErrPersistence wraps every failure of a durable store.
var ErrPersistence = errors.New("persistence failure")

// PublicMessage maps an error to the text shown to the client that caused it.
func PublicMessage(err error) string {
	return PublicMessageOr(err, "Internal error")
}

// PublicMessageOr is PublicMessage with an operation-specific text for
// errors outside the known taxonomy, persistence failures included.
func PublicMessageOr(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential), errors.Is(err, ErrInvalidCredential):
		return "Authentication required"
	case errors.Is(err, ErrNotProjectMember):
		return "Not a project member"
	case errors.Is(err, ErrNotJoined):
		return "Join the project first"
	case errors.Is(err, ErrNotMessageSender):
		return "Only the sender can change this message"
	case errors.Is(err, ErrProjectNotFound):
		return "Project not found"
	case errors.Is(err, ErrMessageNotFound):
		return "Message not found"
	case errors.Is(err, ErrNotificationNotFound):
		return "Notification not found"
	case errors.Is(err, ErrRateLimited):
		return "Too many requests"
	case errors.Is(err, ErrContentTooLong):
		return "Message too long"
	case errors.Is(err, ErrInvalidNotification):
		return "Invalid notification"
	case errors.Is(err, ErrBadPayload):
		return "Invalid payload"
	default:
		return fallback
	}
}

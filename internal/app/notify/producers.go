package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
)

// Payment is the slice of a payment record the producers need.
type Payment struct {
	ID        string
	PayerID   domain.UserID
	PayeeID   domain.UserID
	ProjectID domain.RoomID
	Amount    string
}

// Producers turns business transitions into notifications through a single Notifier.
type Producers struct {
	Notifier core.Notifier
}

// PaymentReleased notifies both parties once escrow is released.
// Both notifications are attempted; the errors are joined.
func (p Producers) PaymentReleased(ctx context.Context, pay Payment) error {
	link := "/projects/" + string(pay.ProjectID) + "/payments/" + pay.ID
	_, errPayee := p.Notifier.Dispatch(ctx, domain.NotificationEvent{
		RecipientID: pay.PayeeID,
		SenderID:    pay.PayerID,
		Type:        domain.NotificationPaymentReceived,
		Title:       "Payment received",
		Message:     fmt.Sprintf("%s has been released to you", pay.Amount),
		Link:        link,
		ProjectID:   pay.ProjectID,
	})
	_, errPayer := p.Notifier.Dispatch(ctx, domain.NotificationEvent{
		RecipientID: pay.PayerID,
		SenderID:    pay.PayeeID,
		Type:        domain.NotificationPaymentReleased,
		Title:       "Payment released",
		Message:     fmt.Sprintf("Your payment of %s has been released from escrow", pay.Amount),
		Link:        link,
		ProjectID:   pay.ProjectID,
	})
	return errors.Join(errPayee, errPayer)
}

// PaymentRefunded notifies the payer that escrow went back to them.
func (p Producers) PaymentRefunded(ctx context.Context, pay Payment) error {
	_, err := p.Notifier.Dispatch(ctx, domain.NotificationEvent{
		RecipientID: pay.PayerID,
		SenderID:    pay.PayeeID,
		Type:        domain.NotificationPaymentRefunded,
		Title:       "Payment refunded",
		Message:     fmt.Sprintf("%s has been refunded to you", pay.Amount),
		Link:        "/projects/" + string(pay.ProjectID) + "/payments/" + pay.ID,
		ProjectID:   pay.ProjectID,
	})
	return err
}

func (p Producers) ApplicationReceived(ctx context.Context, owner, applicant domain.User, project domain.Project) error {
	_, err := p.Notifier.Dispatch(ctx, domain.NotificationEvent{
		RecipientID: owner.ID,
		SenderID:    applicant.ID,
		Type:        domain.NotificationApplicationReceived,
		Title:       "New application",
		Message:     fmt.Sprintf("%s applied to %s", applicant.DisplayName(), project.Name),
		Link:        "/projects/" + string(project.ID) + "/applications",
		ProjectID:   project.ID,
	})
	return err
}

// Mention notifies a user named in a chat message.
func (p Producers) Mention(ctx context.Context, mentioned domain.UserID, author domain.User, msg domain.Message) error {
	_, err := p.Notifier.Dispatch(ctx, domain.NotificationEvent{
		RecipientID: mentioned,
		SenderID:    author.ID,
		Type:        domain.NotificationMention,
		Title:       author.DisplayName() + " mentioned you",
		Message:     excerpt(msg.Content, 140),
		Link:        "/projects/" + string(msg.ProjectID) + "/chat#" + msg.ID,
		ProjectID:   msg.ProjectID,
	})
	return err
}

// DeadlineApproaching is a system event and carries no sender.
func (p Producers) DeadlineApproaching(ctx context.Context, assignee domain.UserID, project domain.RoomID, taskID, taskTitle string, due time.Time) error {
	_, err := p.Notifier.Dispatch(ctx, domain.NotificationEvent{
		RecipientID: assignee,
		Type:        domain.NotificationDeadline,
		Title:       "Deadline approaching",
		Message:     fmt.Sprintf("%q is due %s", taskTitle, due.UTC().Format(time.DateOnly)),
		Link:        "/projects/" + string(project) + "/tasks/" + taskID,
		ProjectID:   project,
		TaskID:      taskID,
	})
	return err
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

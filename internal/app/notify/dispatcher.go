// Package notify persists notifications and pushes them to the recipient's
// live connections.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 1024
	DefaultListLimit = 100
)

type Options struct {
	Workers   int
	QueueSize int
	Now       func() time.Time
}

// Dispatcher is the Notifier every business producer depends on. Dispatch
// returns once the notification is durable; live delivery happens on the
// worker pool started by Run.
type Dispatcher struct {
	store     core.NotificationStore
	users     core.UserDirectory
	deliverer core.UserDeliverer
	validate  *validator.Validate
	queue     chan domain.Notification
	workers   int
	now       func() time.Time
}

var _ core.Notifier = (*Dispatcher)(nil)

func NewDispatcher(store core.NotificationStore, users core.UserDirectory, deliverer core.UserDeliverer, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dispatcher{
		store:     store,
		users:     users,
		deliverer: deliverer,
		validate:  NewValidator(),
		queue:     make(chan domain.Notification, opts.QueueSize),
		workers:   opts.Workers,
		now:       opts.Now,
	}
}

// NewValidator returns a validator that knows the notification_type tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notification_type", func(fl validator.FieldLevel) bool {
		return domain.NotificationType(fl.Field().String()).Valid()
	})
	return v
}

func (d *Dispatcher) Dispatch(ctx context.Context, evt domain.NotificationEvent) (domain.Notification, error) {
	if err := d.validate.Struct(evt); err != nil {
		return domain.Notification{}, fmt.Errorf("%w: %w", domain.ErrInvalidNotification, err)
	}
	n := domain.NewNotification(evt, d.now())
	if err := d.store.CreateNotification(ctx, n); err != nil {
		return domain.Notification{}, fmt.Errorf("%w: create notification: %w", domain.ErrPersistence, err)
	}

	select {
	case d.queue <- n:
	default:
		log.Warn().Str("module", "notify").Str("id", n.ID).Str("recipient", string(n.RecipientID)).Msg("delivery queue full, live push dropped")
	}
	return n, nil
}

// Run delivers queued notifications until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	var wg conc.WaitGroup
	for range d.workers {
		wg.Go(func() { d.work(ctx) })
	}
	log.Info().Str("module", "notify").Int("workers", d.workers).Msg("dispatcher started")
	wg.Wait()
	log.Info().Str("module", "notify").Msg("dispatcher stopped")
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-d.queue:
			d.push(ctx, n)
		}
	}
}

// push sends n to the recipient's live connections, if any.
func (d *Dispatcher) push(ctx context.Context, n domain.Notification) {
	frame, err := core.Encode(core.NotificationEvent{
		Type:         core.EventNewNotification,
		Notification: d.view(ctx, n, nil),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "notify").Msg("encode notification")
		return
	}
	res := d.deliverer.DeliverToUser(n.RecipientID, frame)
	log.Debug().Str("module", "notify").Str("id", n.ID).Str("recipient", string(n.RecipientID)).
		Int("sent", res.SendTo).Int("dropped", len(res.Dropped)).Msg("pushed notification")
}

// List returns the recipient's notifications, newest first.
func (d *Dispatcher) List(ctx context.Context, recipient domain.UserID, unreadOnly bool, limit int) ([]domain.NotificationView, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	list, err := d.store.ListNotifications(ctx, recipient, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list notifications: %w", domain.ErrPersistence, err)
	}
	senders := make(map[domain.UserID]*domain.Sender)
	return lo.Map(list, func(n domain.Notification, _ int) domain.NotificationView {
		return d.view(ctx, n, senders)
	}), nil
}

func (d *Dispatcher) MarkRead(ctx context.Context, recipient domain.UserID, id string) (domain.NotificationView, error) {
	n, err := d.store.MarkRead(ctx, recipient, id, d.now())
	switch {
	case errors.Is(err, domain.ErrNotificationNotFound):
		return domain.NotificationView{}, err
	case err != nil:
		return domain.NotificationView{}, fmt.Errorf("%w: mark read: %w", domain.ErrPersistence, err)
	}
	return d.view(ctx, n, nil), nil
}

// view resolves sender display fields; cache may be nil.
func (d *Dispatcher) view(ctx context.Context, n domain.Notification, cache map[domain.UserID]*domain.Sender) domain.NotificationView {
	if n.SenderID == "" {
		return domain.NotificationView{Notification: n}
	}
	if s, ok := cache[n.SenderID]; ok {
		return domain.NotificationView{Notification: n, Sender: s}
	}
	u, err := d.users.GetUser(ctx, n.SenderID)
	if err != nil {
		u = domain.User{ID: n.SenderID}
	}
	s := domain.SenderOf(u)
	if cache != nil {
		cache[n.SenderID] = &s
	}
	return domain.NotificationView{Notification: n, Sender: &s}
}

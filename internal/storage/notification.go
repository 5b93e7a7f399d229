package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
)

// NotificationRepository keys notifications by "ntf:{recipient}:{id}". Ids are
// ULIDs, so a reverse prefix scan yields the newest first.
type NotificationRepository struct {
	db *badger.DB
}

var _ core.NotificationStore = NotificationRepository{}

func NewNotificationRepository(db *badger.DB) NotificationRepository {
	return NotificationRepository{db: db}
}

func inboxPrefix(uid domain.UserID) []byte {
	return []byte("ntf:" + segment(string(uid)) + ":")
}

func notificationKey(uid domain.UserID, id string) []byte {
	return append(inboxPrefix(uid), id...)
}

func (r NotificationRepository) CreateNotification(_ context.Context, n domain.Notification) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return set(txn, notificationKey(n.RecipientID, n.ID), n)
	})
	if err != nil {
		return fmt.Errorf("store notification %s: %w", n.ID, err)
	}
	return nil
}

func (r NotificationRepository) ListNotifications(_ context.Context, recipient domain.UserID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	out := []domain.Notification{}
	prefix := inboxPrefix(recipient)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append(inboxPrefix(recipient), '~')); it.ValidForPrefix(prefix); it.Next() {
			var n domain.Notification
			if err := it.Item().Value(func(val []byte) error { return unmarshal(val, &n) }); err != nil {
				return err
			}
			if unreadOnly && n.Read {
				continue
			}
			out = append(out, n)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications of %s: %w", recipient, err)
	}
	return out, nil
}

// MarkRead flags a notification of recipient as read. Someone else's
// notification is reported as not found.
func (r NotificationRepository) MarkRead(_ context.Context, recipient domain.UserID, id string, at time.Time) (domain.Notification, error) {
	var n domain.Notification
	key := notificationKey(recipient, id)
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := get(txn, key, &n); err != nil {
			return err
		}
		n.MarkRead(at)
		return set(txn, key, n)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Notification{}, domain.ErrNotificationNotFound
	}
	if err != nil {
		return domain.Notification{}, fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return n, nil
}

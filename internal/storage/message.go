package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
)

// MessageRepository stores messages under "msg:{room}:{created_at_nanos%019d}:{id}"
// so a prefix scan walks a room in creation order. "msgid:{id}" points back
// at the full key for lookups by id.
type MessageRepository struct {
	db *badger.DB
}

var _ core.MessageStore = MessageRepository{}

func NewMessageRepository(db *badger.DB) MessageRepository {
	return MessageRepository{db: db}
}

func roomPrefix(room domain.RoomID) string {
	return "msg:" + segment(string(room)) + ":"
}

func messageKey(m domain.Message) []byte {
	return fmt.Appendf(nil, "%s%019d:%s", roomPrefix(m.ProjectID), m.CreatedAt.UnixNano(), m.ID)
}

func messageIDKey(id string) []byte {
	return []byte("msgid:" + id)
}

func (r MessageRepository) CreateMessage(_ context.Context, m domain.Message) error {
	key := messageKey(m)
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := set(txn, key, m); err != nil {
			return err
		}
		return txn.Set(messageIDKey(m.ID), key)
	})
	if err != nil {
		return fmt.Errorf("store message %s: %w", m.ID, err)
	}
	return nil
}

func (r MessageRepository) GetMessage(_ context.Context, id string) (domain.Message, error) {
	var m domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := lookupMessageKey(txn, id)
		if err != nil {
			return err
		}
		return get(txn, key, &m)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, domain.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("get message %s: %w", id, err)
	}
	return m, nil
}

// UpdateMessage overwrites an existing message in place; its key never changes.
func (r MessageRepository) UpdateMessage(_ context.Context, m domain.Message) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key, err := lookupMessageKey(txn, m.ID)
		if err != nil {
			return err
		}
		return set(txn, key, m)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.ErrMessageNotFound
	}
	if err != nil {
		return fmt.Errorf("update message %s: %w", m.ID, err)
	}
	return nil
}

func lookupMessageKey(txn *badger.Txn, id string) ([]byte, error) {
	item, err := txn.Get(messageIDKey(id))
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (r MessageRepository) RecentMessages(ctx context.Context, room domain.RoomID, limit int) ([]domain.Message, error) {
	msgs, _, err := r.MessagesBefore(ctx, room, "", limit)
	return msgs, err
}

// MessagesBefore walks room backwards from cursor, skipping deleted messages,
// and returns the page oldest first. The cursor is the "{nanos}:{id}" tail of
// the oldest returned key, or empty when nothing older remains.
func (r MessageRepository) MessagesBefore(_ context.Context, room domain.RoomID, cursor string, limit int) ([]domain.Message, string, error) {
	if limit <= 0 {
		return []domain.Message{}, "", nil
	}
	prefix := []byte(roomPrefix(room))
	seek := append(slices.Clone(prefix), '~')
	if cursor != "" {
		seek = append(slices.Clone(prefix), cursor...)
	}

	var (
		out  []domain.Message
		last string
		next string
	)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			tail := strings.TrimPrefix(string(item.Key()), string(prefix))
			if tail == cursor {
				continue
			}
			var m domain.Message
			if err := item.Value(func(val []byte) error { return unmarshal(val, &m) }); err != nil {
				return err
			}
			if m.Deleted {
				continue
			}
			// A full page only gets a cursor when something older is left.
			if len(out) == limit {
				next = last
				break
			}
			out = append(out, m)
			last = tail
		}
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("scan messages of %s: %w", room, err)
	}
	slices.Reverse(out)
	if out == nil {
		out = []domain.Message{}
	}
	return out, next, nil
}

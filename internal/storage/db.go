// Package storage keeps chat history, notifications and the project and
// user records in an embedded badger database.
package storage

import (
	"encoding/hex"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Open opens the database at path. An empty path keeps everything in memory.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{log.With().Str("module", "storage.badger").Logger()})
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// badgerLogger routes badger's own logs through zerolog, one level down:
// badger is chatty at info.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(f string, v ...any)   { b.l.Error().Msgf(f, v...) }
func (b badgerLogger) Warningf(f string, v ...any) { b.l.Warn().Msgf(f, v...) }
func (b badgerLogger) Infof(f string, v ...any)    { b.l.Debug().Msgf(f, v...) }
func (b badgerLogger) Debugf(f string, v ...any)   { b.l.Trace().Msgf(f, v...) }

// segment makes an id safe to embed between ':' separators.
func segment(id string) string {
	return hex.EncodeToString([]byte(id))
}

func get(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error { return unmarshal(val, v) })
}

func set(txn *badger.Txn, key []byte, v any) error {
	b, err := marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, b)
}

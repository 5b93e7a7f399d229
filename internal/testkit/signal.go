// Package testkit holds in-memory doubles shared by package tests.
package testkit

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
)

var (
	ErrFull   = errors.New("recorder full")
	ErrClosed = errors.New("connection closed")
)

// Recorder is a core.SignalConnection that keeps every frame it accepts.
type Recorder struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func NewRecorder() *Recorder { return &Recorder{} }

// Conn builds a connection for user backed by a fresh Recorder.
func Conn(user domain.User) (core.Connection, *Recorder) {
	rec := NewRecorder()
	return core.NewConnection(user, rec), rec
}

func (r *Recorder) TrySend(f core.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.full {
		return ErrFull
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// SetFull makes every following TrySend fail with ErrFull.
func (r *Recorder) SetFull(full bool) {
	r.mu.Lock()
	r.full = full
	r.mu.Unlock()
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.frames = nil
	r.mu.Unlock()
}

// Types lists the type discriminator of every recorded frame, in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.frames))
	for _, f := range r.frames {
		var env struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(f, &env)
		out = append(out, env.Type)
	}
	return out
}

// OfType decodes every recorded frame of the given type into a new T.
func OfType[T any](r *Recorder, eventType string) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, f := range r.frames {
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(f, &env); err != nil || env.Type != eventType {
			continue
		}
		var v T
		if err := json.Unmarshal(f, &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

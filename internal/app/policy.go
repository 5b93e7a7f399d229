package app

import (
	"errors"

	"github.com/dkeye/Collab/internal/core"
)

// ErrBackpressure is returned by a signal connection whose outbound buffer is full.
var ErrBackpressure = errors.New("backpressure")

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Policy decides what happens to a connection that cannot keep up with fan-out.
type Policy interface {
	OnBackPressure(conn core.Connection) BackpressureAction
}

// SimplePolicy kicks slow consumers; they reconnect and get a fresh snapshot.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(core.Connection) BackpressureAction {
	return KickMember
}

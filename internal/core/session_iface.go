package core

import "github.com/dkeye/Collab/internal/domain"

type SessionID string

// Connection is one live transport session bound to exactly one authenticated user.
// This is what the registry stores and fans out to.
type Connection interface {
	ID() SessionID
	User() domain.User
	Signal() SignalConnection
}

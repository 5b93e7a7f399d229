package core

import (
	"github.com/dkeye/Collab/internal/domain"
	"github.com/google/uuid"
)

// connection pairs the verified identity with its transport endpoint.
type connection struct {
	id     SessionID
	user   domain.User
	signal SignalConnection
}

// NewConnection is called once per successful handshake.
func NewConnection(user domain.User, signal SignalConnection) Connection {
	return &connection{
		id:     SessionID(uuid.NewString()),
		user:   user,
		signal: signal,
	}
}

func (c *connection) ID() SessionID            { return c.id }
func (c *connection) User() domain.User        { return c.user }
func (c *connection) Signal() SignalConnection { return c.signal }

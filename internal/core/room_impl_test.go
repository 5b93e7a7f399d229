package core

import (
	"testing"

	"github.com/dkeye/Collab/internal/domain"
	"github.com/stretchr/testify/require"
)

type nopSignal struct{}

func (nopSignal) TrySend(Frame) error { return nil }
func (nopSignal) Close()              {}

func TestRoomMembers(t *testing.T) {
	req := require.New(t)
	room := NewRoomMembers("p1")
	alice := NewConnection(domain.User{ID: "u1", Name: "Alice"}, nopSignal{})
	aliceTab := NewConnection(domain.User{ID: "u1", Name: "Alice"}, nopSignal{})
	bob := NewConnection(domain.User{ID: "u2", Name: "Bob"}, nopSignal{})

	req.True(room.Add(alice))
	req.False(room.Add(alice))
	req.True(room.Add(bob))
	req.True(room.Add(aliceTab))
	req.Equal(3, room.Count())

	req.Equal([]PresenceEntry{
		{UserID: "u1", Name: "Alice", SessionID: alice.ID()},
		{UserID: "u2", Name: "Bob", SessionID: bob.ID()},
		{UserID: "u1", Name: "Alice", SessionID: aliceTab.ID()},
	}, room.Roster())

	req.True(room.Remove(bob.ID()))
	req.False(room.Remove(bob.ID()))
	req.False(room.Has(bob.ID()))
	req.Len(room.Connections(), 2)
}

func TestNewConnection_UniqueIDs(t *testing.T) {
	req := require.New(t)
	user := domain.User{ID: "u1"}
	a := NewConnection(user, nopSignal{})
	b := NewConnection(user, nopSignal{})
	req.NotEqual(a.ID(), b.ID())
	req.Equal(user, a.User())
}

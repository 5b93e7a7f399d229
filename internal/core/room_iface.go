package core

import "github.com/dkeye/Collab/internal/domain"

// PresenceEntry is one live occupant of a room. Entries are keyed by
// connection, so a user connected twice appears twice.
type PresenceEntry struct {
	UserID    domain.UserID `json:"id"`
	Name      string        `json:"name"`
	SessionID SessionID     `json:"connectionId"`
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []Connection
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"connectionCount"`
}

// RoomRegistry is the process-wide membership table: room -> connections,
// connection -> joined rooms and user -> notification subscribers.
// A multi-process deployment backs it with a shared bus.
type RoomRegistry interface {
	Bind(conn Connection, cancel func())
	Unbind(sid SessionID)
	GetSession(sid SessionID) (Connection, bool)
	Cancel(sid SessionID) bool

	Join(room domain.RoomID, sid SessionID) (bool, error)
	Leave(room domain.RoomID, sid SessionID) bool
	IsMember(room domain.RoomID, sid SessionID) bool
	RoomsOf(sid SessionID) []domain.RoomID
	Members(room domain.RoomID) []Connection
	Roster(room domain.RoomID) []PresenceEntry
	ViewRoom(room domain.RoomID, fn func(members []Connection, roster []PresenceEntry))
	Subscribers(uid domain.UserID) []Connection
	List() []RoomInfo
}

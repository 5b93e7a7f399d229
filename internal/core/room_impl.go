package core

import (
	"cmp"
	"slices"

	"github.com/dkeye/Collab/internal/domain"
	"github.com/samber/lo"
)

type roomMember struct {
	conn Connection
	seq  uint64
}

// RoomMembers is the in-memory connection set of one room.
// It is not safe for concurrent use; the registry lock guards it.
// It never closes adapter-owned resources.
type RoomMembers struct {
	room  domain.RoomID
	bySID map[SessionID]roomMember
	seq   uint64
}

func NewRoomMembers(room domain.RoomID) *RoomMembers {
	return &RoomMembers{
		room:  room,
		bySID: make(map[SessionID]roomMember),
	}
}

func (r *RoomMembers) Room() domain.RoomID { return r.room }

func (r *RoomMembers) Count() int { return len(r.bySID) }

// Add registers conn and reports whether it was absent before.
func (r *RoomMembers) Add(conn Connection) bool {
	if _, ok := r.bySID[conn.ID()]; ok {
		return false
	}
	r.seq++
	r.bySID[conn.ID()] = roomMember{conn: conn, seq: r.seq}
	return true
}

func (r *RoomMembers) Remove(sid SessionID) bool {
	if _, ok := r.bySID[sid]; !ok {
		return false
	}
	delete(r.bySID, sid)
	return true
}

func (r *RoomMembers) Has(sid SessionID) bool {
	_, ok := r.bySID[sid]
	return ok
}

// Connections lists members in join order.
func (r *RoomMembers) Connections() []Connection {
	members := lo.Values(r.bySID)
	slices.SortFunc(members, func(a, b roomMember) int { return cmp.Compare(a.seq, b.seq) })
	return lo.Map(members, func(m roomMember, _ int) Connection { return m.conn })
}

// Roster projects the current members to presence entries, in join order.
func (r *RoomMembers) Roster() []PresenceEntry {
	return ProjectRoster(r.Connections())
}

func ProjectRoster(conns []Connection) []PresenceEntry {
	return lo.Map(conns, func(c Connection, _ int) PresenceEntry {
		u := c.User()
		return PresenceEntry{UserID: u.ID, Name: u.DisplayName(), SessionID: c.ID()}
	})
}

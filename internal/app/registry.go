package app

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type sessionEntry struct {
	Conn   core.Connection
	Rooms  map[domain.RoomID]struct{}
	Cancel func()
}

// Registry owns every piece of process-wide membership state: the room table,
// each connection's joined-room set and the per-user notification channels.
// All of it is guarded by one lock so the two views of membership never diverge.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	rooms    map[domain.RoomID]*core.RoomMembers
	inbox    map[domain.UserID]map[core.SessionID]core.Connection
}

var _ core.RoomRegistry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		rooms:    make(map[domain.RoomID]*core.RoomMembers),
		inbox:    make(map[domain.UserID]map[core.SessionID]core.Connection),
	}
}

// Bind registers a fresh connection and subscribes it to its user's channel.
func (r *Registry) Bind(conn core.Connection, cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sid := conn.ID()
	uid := conn.User().ID
	r.sessions[sid] = &sessionEntry{
		Conn:   conn,
		Rooms:  make(map[domain.RoomID]struct{}),
		Cancel: cancel,
	}
	subs, ok := r.inbox[uid]
	if !ok {
		subs = make(map[core.SessionID]core.Connection)
		r.inbox[uid] = subs
	}
	subs[sid] = conn
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("user", string(uid)).Msg("bound session")
}

// Unbind forgets the connection. Rooms still listed for it are dropped
// without a roster broadcast; callers leave them first.
func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return
	}
	for room := range e.Rooms {
		r.removeLocked(room, sid)
	}
	uid := e.Conn.User().ID
	if subs, ok := r.inbox[uid]; ok {
		delete(subs, sid)
		if len(subs) == 0 {
			delete(r.inbox, uid)
		}
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

func (r *Registry) GetSession(sid core.SessionID) (core.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Conn, true
	}
	return nil, false
}

// Join registers sid under room. It reports false when sid was already there.
func (r *Registry) Join(room domain.RoomID, sid core.SessionID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false, domain.ErrUnknownSession
	}
	members, ok := r.rooms[room]
	if !ok {
		members = core.NewRoomMembers(room)
		r.rooms[room] = members
	}
	added := members.Add(e.Conn)
	e.Rooms[room] = struct{}{}
	if added {
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("joined room")
	}
	return added, nil
}

// Leave deregisters sid from room and reports whether anything changed.
func (r *Registry) Leave(room domain.RoomID, sid core.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := r.removeLocked(room, sid)
	if removed {
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("left room")
	}
	return removed
}

func (r *Registry) removeLocked(room domain.RoomID, sid core.SessionID) bool {
	if e, ok := r.sessions[sid]; ok {
		delete(e.Rooms, room)
	}
	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	removed := members.Remove(sid)
	if members.Count() == 0 {
		delete(r.rooms, room)
	}
	return removed
}

func (r *Registry) IsMember(room domain.RoomID, sid core.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members, ok := r.rooms[room]
	return ok && members.Has(sid)
}

// RoomsOf lists the rooms sid has joined, sorted.
func (r *Registry) RoomsOf(sid core.SessionID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(e.Rooms))
}

func (r *Registry) Members(room domain.RoomID) []core.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if members, ok := r.rooms[room]; ok {
		return members.Connections()
	}
	return nil
}

func (r *Registry) Roster(room domain.RoomID) []core.PresenceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if members, ok := r.rooms[room]; ok {
		return members.Roster()
	}
	return []core.PresenceEntry{}
}

// ViewRoom runs fn with a consistent view of room while holding the read lock,
// so no membership change can interleave with what fn sends.
// fn must not call back into the registry.
func (r *Registry) ViewRoom(room domain.RoomID, fn func(members []core.Connection, roster []core.PresenceEntry)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members, ok := r.rooms[room]
	if !ok {
		fn(nil, []core.PresenceEntry{})
		return
	}
	conns := members.Connections()
	fn(conns, core.ProjectRoster(conns))
}

// Subscribers lists the connections on uid's notification channel.
func (r *Registry) Subscribers(uid domain.UserID) []core.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.inbox[uid])
}

func (r *Registry) List() []core.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for id, members := range r.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: members.Count()})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int { return strings.Compare(string(a.ID), string(b.ID)) })
	return out
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

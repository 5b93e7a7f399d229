package orch

import (
	"sync"
	"time"

	"github.com/dkeye/Collab/internal/app"
	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator runs every membership, presence and chat flow on top of the
// registry and the durable stores. Transport adapters call it; it never
// touches sockets directly.
type Orchestrator struct {
	Registry core.RoomRegistry
	Policy   app.Policy
	Projects core.ProjectStore
	Users    core.UserDirectory
	Messages core.MessageStore

	RecentLimit      int
	MaxMessageLength int
	Now              func() time.Time

	roomLocks sync.Map // domain.RoomID -> *sync.Mutex
}

var _ core.UserDeliverer = (*Orchestrator)(nil)

// Connect registers a freshly authenticated connection. cancel stops its pumps.
func (o *Orchestrator) Connect(conn core.Connection, cancel func()) {
	o.Registry.Bind(conn, cancel)
}

// Disconnect unwinds every room conn joined, one roster broadcast per room,
// then drops its notification subscription. It returns once the registry no
// longer references conn.
func (o *Orchestrator) Disconnect(conn core.Connection) {
	sid := conn.ID()
	for _, room := range o.Registry.RoomsOf(sid) {
		if o.Registry.Leave(room, sid) {
			o.broadcastRoster(room)
		}
	}
	o.Registry.Unbind(sid)
	log.Info().Str("module", "orch").Str("conn", string(sid)).Str("user", string(conn.User().ID)).Msg("disconnected")
}

// DeliverToUser pushes frame to every live connection of uid.
func (o *Orchestrator) DeliverToUser(uid domain.UserID, frame core.Frame) core.PublishResult {
	res := deliver(o.Registry.Subscribers(uid), frame)
	o.applyPolicy(res)
	return res
}

// Kick closes conn's transport; its read loop then runs Disconnect.
func (o *Orchestrator) Kick(conn core.Connection) {
	conn.Signal().Close()
	o.Registry.Cancel(conn.ID())
	log.Warn().Str("module", "orch").Str("conn", string(conn.ID())).Msg("kicked connection")
}

// Send encodes v and hands it to conn alone.
func (o *Orchestrator) Send(conn core.Connection, v any) {
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	o.applyPolicy(deliver([]core.Connection{conn}, frame))
}

func deliver(conns []core.Connection, frame core.Frame) core.PublishResult {
	var res core.PublishResult
	for _, c := range conns {
		if err := c.Signal().TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, c)
			continue
		}
		res.SendTo++
	}
	return res
}

// applyPolicy must run outside registry callbacks: kicking re-enters the registry.
func (o *Orchestrator) applyPolicy(res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(slow) {
		case app.KickMember:
			o.Kick(slow)
		case app.MarkSlow, app.DropFrame, app.NoAction:
		}
	}
}

func (o *Orchestrator) roomLock(room domain.RoomID) *sync.Mutex {
	mu, _ := o.roomLocks.LoadOrStore(room, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) recentLimit() int {
	if o.RecentLimit > 0 {
		return o.RecentLimit
	}
	return domain.DefaultRecentLimit
}

func (o *Orchestrator) maxMessageLength() int {
	if o.MaxMessageLength > 0 {
		return o.MaxMessageLength
	}
	return domain.DefaultMaxMessageLength
}

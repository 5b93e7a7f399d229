package orch

import (
	"context"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/rs/zerolog/log"
)

// broadcastRoster sends the recomputed roster to every connection of room.
// Encoding and sending happen under the registry read lock, so snapshots reach
// each connection in mutation order.
func (o *Orchestrator) broadcastRoster(room domain.RoomID) {
	var res core.PublishResult
	o.Registry.ViewRoom(room, func(members []core.Connection, roster []core.PresenceEntry) {
		if len(members) == 0 {
			return
		}
		frame, err := core.Encode(core.NewOnlineUsersEvent(room, roster))
		if err != nil {
			log.Error().Err(err).Str("module", "orch").Msg("encode roster")
			return
		}
		res = deliver(members, frame)
	})
	o.applyPolicy(res)
}

// Roster returns the live roster of room to a project member.
func (o *Orchestrator) Roster(ctx context.Context, uid domain.UserID, room domain.RoomID) ([]core.PresenceEntry, error) {
	if _, err := o.authorize(ctx, uid, room); err != nil {
		return nil, err
	}
	return o.Registry.Roster(room), nil
}

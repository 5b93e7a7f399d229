package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join authorizes conn against a fresh project lookup and registers it under room.
// A first join broadcasts the roster to the room; a repeated join only re-sends
// the roster to the caller. Either way the caller gets the recent history, or
// an error event when it cannot be loaded.
func (o *Orchestrator) Join(ctx context.Context, conn core.Connection, room domain.RoomID) error {
	if _, err := o.authorize(ctx, conn.User().ID, room); err != nil {
		return err
	}

	// Registration and the history snapshot share the room's ordering lock, so
	// every message is either in the snapshot or broadcast to conn afterwards.
	mu := o.roomLock(room)
	mu.Lock()
	added, err := o.Registry.Join(room, conn.ID())
	if err != nil {
		mu.Unlock()
		return err
	}
	if added {
		o.broadcastRoster(room)
	} else {
		o.Send(conn, core.NewOnlineUsersEvent(room, o.Registry.Roster(room)))
	}
	recent, err := o.recent(ctx, room)
	mu.Unlock()

	if err != nil {
		// The join stands; only the snapshot is missing.
		log.Error().Err(err).Str("module", "orch").Str("room", string(room)).Msg("load recent messages")
		o.Send(conn, core.NewErrorEvent("Failed to load messages"))
		return nil
	}
	o.Send(conn, core.NewRecentMessagesEvent(room, recent))
	log.Info().Str("module", "orch").Str("conn", string(conn.ID())).Str("room", string(room)).Bool("first", added).Msg("joined project")
	return nil
}

// Leave is unconditional and idempotent.
func (o *Orchestrator) Leave(conn core.Connection, room domain.RoomID) {
	if o.Registry.Leave(room, conn.ID()) {
		o.broadcastRoster(room)
	}
}

// authorize loads the project and checks uid is its owner or a member.
func (o *Orchestrator) authorize(ctx context.Context, uid domain.UserID, room domain.RoomID) (domain.Project, error) {
	project, err := o.Projects.GetProject(ctx, room)
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		return domain.Project{}, err
	case err != nil:
		return domain.Project{}, fmt.Errorf("%w: load project %s: %w", domain.ErrPersistence, room, err)
	}
	if !project.HasMember(uid) {
		return domain.Project{}, domain.ErrNotProjectMember
	}
	return project, nil
}

package signal

import (
	"context"

	"github.com/dkeye/Collab/internal/core"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(ctx context.Context, conn core.Connection, data []byte) {
	p, err := decode[projectPayload](ctl, data)
	if err != nil {
		ctl.replyError(conn, err, "")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(conn.ID())).Str("project", string(p.ProjectID)).Msg("join")
	if err := ctl.Orch.Join(ctx, conn, p.ProjectID); err != nil {
		ctl.replyError(conn, err, "Failed to join project")
	}
}

// handleLeave leaves one project; the connection stays open.
func (ctl *SignalWSController) handleLeave(conn core.Connection, data []byte) {
	p, err := decode[projectPayload](ctl, data)
	if err != nil {
		ctl.replyError(conn, err, "")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(conn.ID())).Str("project", string(p.ProjectID)).Msg("leave")
	ctl.Orch.Leave(conn, p.ProjectID)
}

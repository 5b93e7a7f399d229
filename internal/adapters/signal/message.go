package signal

import (
	"context"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
)

func (ctl *SignalWSController) handleSendMessage(ctx context.Context, conn core.Connection, data []byte) {
	p, err := decode[sendMessagePayload](ctl, data)
	if err != nil {
		ctl.replyError(conn, err, "")
		return
	}
	if ctl.MessageLimit != nil && !ctl.MessageLimit.Allow(conn.User().ID) {
		ctl.replyError(conn, domain.ErrRateLimited, "")
		return
	}
	if _, err := ctl.Orch.SendMessage(ctx, conn, p.ProjectID, p.Content); err != nil {
		ctl.replyError(conn, err, "Failed to send message")
	}
}

// handleTyping relays typing indicators. Over-limit indicators are dropped silently.
func (ctl *SignalWSController) handleTyping(conn core.Connection, data []byte, typing bool) {
	p, err := decode[projectPayload](ctl, data)
	if err != nil {
		ctl.replyError(conn, err, "")
		return
	}
	if !typing {
		ctl.Orch.StopTyping(conn, p.ProjectID)
		return
	}
	if ctl.TypingLimit != nil && !ctl.TypingLimit.Allow(conn.User().ID) {
		return
	}
	ctl.Orch.Typing(conn, p.ProjectID)
}

package signal

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/rs/zerolog/log"
)

// Inbound event types.
const (
	inJoinProject  = "join_project"
	inLeaveProject = "leave_project"
	inSendMessage  = "send_message"
	inTyping       = "typing"
	inStopTyping   = "stop_typing"
	inPing         = "ping"
	inWhoAmI       = "whoami"
)

type envelope struct {
	Type string `json:"type"`
}

// projectPayload carries join_project, leave_project, typing and stop_typing.
type projectPayload struct {
	Type      string        `json:"type"`
	ProjectID domain.RoomID `json:"projectId" validate:"required,max=128"`
}

type sendMessagePayload struct {
	Type      string        `json:"type"`
	ProjectID domain.RoomID `json:"projectId" validate:"required,max=128"`
	Content   string        `json:"content"`
}

func errBadPayload(cause error) error {
	if cause == nil {
		return domain.ErrBadPayload
	}
	return fmt.Errorf("%w: %w", domain.ErrBadPayload, cause)
}

func decode[T any](ctl *SignalWSController, data []byte) (T, error) {
	var p T
	if err := json.Unmarshal(data, &p); err != nil {
		return p, errBadPayload(err)
	}
	if err := ctl.validate.Struct(p); err != nil {
		return p, errBadPayload(err)
	}
	return p, nil
}

// replyError reports err to conn alone. Blank-content errors are swallowed.
func (ctl *SignalWSController) replyError(conn core.Connection, err error, fallback string) {
	if errors.Is(err, domain.ErrEmptyContent) {
		return
	}
	if fallback == "" {
		fallback = "Internal error"
	}
	log.Debug().Err(err).Str("module", "signal").Str("conn", string(conn.ID())).Msg("reply error")
	ctl.Orch.Send(conn, core.NewErrorEvent(domain.PublicMessageOr(err, fallback)))
}

package signal

import (
	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
)

func (ctl *SignalWSController) handleWhoAmI(conn core.Connection) {
	user := conn.User()
	projects := ctl.Orch.Registry.RoomsOf(conn.ID())
	if projects == nil {
		projects = []domain.RoomID{}
	}
	ctl.Orch.Send(conn, core.WhoAmIEvent{
		Type:         core.EventWhoAmI,
		UserID:       user.ID,
		UserName:     user.DisplayName(),
		ConnectionID: conn.ID(),
		Projects:     projects,
	})
}

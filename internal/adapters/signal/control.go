package signal

import "github.com/dkeye/Collab/internal/core"

func (ctl *SignalWSController) handlePing(conn core.Connection) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: core.EventPong,
	}
	ctl.Orch.Send(conn, resp)
}

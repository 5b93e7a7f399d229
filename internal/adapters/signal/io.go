package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/Collab/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Unblocks the read pump.
			c.Close()
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				c.Close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump write error")
				c.Close()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(ctl.opts.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				c.Close()
				return
			}
		}
	}
}

// readPump owns the connection's teardown: whatever ends the loop, the
// connection is unwound from every room before the pump returns.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, conn core.Connection, c *WsSignalConn) {
	sid := conn.ID()
	defer func() {
		ctl.Orch.Disconnect(conn)
		c.Close()
		cancel()
		log.Info().Str("module", "signal").Str("conn", string(sid)).Msg("readPump closed")
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
		ctl.handleSignal(ctx, conn, data)
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, conn core.Connection, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		log.Debug().Str("module", "signal").Str("conn", string(conn.ID())).Msg("bad json")
		ctl.replyError(conn, errBadPayload(err), "")
		return
	}

	switch env.Type {
	case inJoinProject:
		ctl.handleJoin(ctx, conn, data)
	case inLeaveProject:
		ctl.handleLeave(conn, data)
	case inSendMessage:
		ctl.handleSendMessage(ctx, conn, data)
	case inTyping:
		ctl.handleTyping(conn, data, true)
	case inStopTyping:
		ctl.handleTyping(conn, data, false)
	case inPing:
		ctl.handlePing(conn)
	case inWhoAmI:
		ctl.handleWhoAmI(conn)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.replyError(conn, errBadPayload(nil), "")
	}
}

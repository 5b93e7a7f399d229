// Package signal is the websocket edge of the gateway: one read and one write
// pump per connection, inbound events decoded and handed to the orchestrator.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Collab/internal/app"
	"github.com/dkeye/Collab/internal/app/orch"
	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("connection closed")

type Options struct {
	ReadLimit    int64
	PingPeriod   time.Duration
	PongWait     time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32768
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = 54 * time.Second
	}
	if o.PongWait <= o.PingPeriod {
		o.PongWait = o.PingPeriod * 10 / 9
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	return o
}

type SignalWSController struct {
	Orch         *orch.Orchestrator
	MessageLimit *app.RateLimiter
	TypingLimit  *app.RateLimiter

	opts     Options
	validate *validator.Validate
}

func NewSignalWSController(o *orch.Orchestrator, messageLimit, typingLimit *app.RateLimiter, opts Options) *SignalWSController {
	return &SignalWSController{
		Orch:         o,
		MessageLimit: messageLimit,
		TypingLimit:  typingLimit,
		opts:         opts.withDefaults(),
		validate:     validator.New(),
	}
}

// WsSignalConn is the core.SignalConnection of one websocket.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return app.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades an already authenticated request and starts the pumps.
// ctx bounds the connection's lifetime.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context, user domain.User) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.opts.ReadLimit)

	sc := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}
	conn := core.NewConnection(user, sc)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Connect(conn, cancel)
	log.Info().Str("module", "signal").Str("conn", string(conn.ID())).Str("user", string(user.ID)).Msg("new WS connection")

	go ctl.writePump(ctx, sc)
	go ctl.readPump(ctx, cancel, conn, sc)
}

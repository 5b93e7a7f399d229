package http

import (
	"context"

	"github.com/dkeye/Collab/internal/adapters/signal"
	"github.com/dkeye/Collab/internal/app/orch"
	"github.com/dkeye/Collab/internal/config"
	"github.com/dkeye/Collab/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Auth     Authenticator
	Orch     *orch.Orchestrator
	Signal   *signal.SignalWSController
	Notifier core.Notifier
	Inbox    Inbox
}

type handlers struct {
	orch     *orch.Orchestrator
	notifier core.Notifier
	inbox    Inbox
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	h := &handlers{orch: deps.Orch, notifier: deps.Notifier, inbox: deps.Inbox}
	log.Info().Str("module", "adapters.http").Msg("router setup")

	r.GET("/api/health", h.health)

	api := r.Group("/api", BearerAuthMiddleware(deps.Auth))
	api.GET("/ws", func(c *gin.Context) {
		deps.Signal.HandleSignal(ctx, c, currentUser(c))
	})
	api.GET("/projects/:id/online", h.online)
	api.GET("/projects/:id/messages", h.history)
	api.PATCH("/messages/:id", h.editMessage)
	api.DELETE("/messages/:id", h.deleteMessage)
	api.GET("/notifications", h.listNotifications)
	api.POST("/notifications/:id/read", h.markRead)

	internal := r.Group("/internal", InternalKeyMiddleware(cfg.InternalAPIKey))
	internal.POST("/notifications", h.dispatch)
	internal.GET("/rooms", h.rooms)

	return r
}

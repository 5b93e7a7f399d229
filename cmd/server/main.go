package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Collab/internal/adapters/http"
	wsignal "github.com/dkeye/Collab/internal/adapters/signal"
	"github.com/dkeye/Collab/internal/app"
	"github.com/dkeye/Collab/internal/app/notify"
	"github.com/dkeye/Collab/internal/app/orch"
	"github.com/dkeye/Collab/internal/auth"
	"github.com/dkeye/Collab/internal/config"
	"github.com/dkeye/Collab/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := storage.Open(cfg.BadgerPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("close storage")
		}
	}()
	users := storage.NewUserRepository(db)

	reg := app.NewRegistry()
	gateway := &orch.Orchestrator{
		Registry:         reg,
		Policy:           app.SimplePolicy{},
		Projects:         storage.NewProjectRepository(db),
		Users:            users,
		Messages:         storage.NewMessageRepository(db),
		RecentLimit:      cfg.RecentLimit,
		MaxMessageLength: cfg.MaxMessageLength,
	}

	dispatcher := notify.NewDispatcher(storage.NewNotificationRepository(db), users, gateway, notify.Options{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueue,
	})
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatchDone := make(chan struct{})
	go func() {
		dispatcher.Run(dispatchCtx)
		close(dispatchDone)
	}()

	ws := wsignal.NewSignalWSController(gateway,
		app.NewRateLimiter(cfg.MessageRate, cfg.MessageBurst),
		app.NewRateLimiter(cfg.TypingRate, cfg.TypingBurst),
		wsignal.Options{
			ReadLimit:    cfg.ReadLimit,
			PingPeriod:   cfg.PingPeriod,
			PongWait:     cfg.PongWait,
			WriteTimeout: cfg.WriteTimeout,
			SendBuffer:   cfg.SendBuffer,
		})

	r := router.SetupRouter(ctx, cfg, router.Deps{
		Auth:     auth.NewAuthenticator([]byte(cfg.Secret), users),
		Orch:     gateway,
		Signal:   ws,
		Notifier: dispatcher,
		Inbox:    dispatcher,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Collab gateway started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	stopDispatch()
	<-dispatchDone
	log.Info().Msg("Server exited gracefully")
}

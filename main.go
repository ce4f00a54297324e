package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mo-shahab/pong-duel/config"
	"github.com/mo-shahab/pong-duel/wsserver"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsh := wsserver.NewWebSocketHandler(ctx, wsserver.Options{
		Canvas:          cfg.Canvas(),
		TickRate:        cfg.TickInterval(),
		PowerUpInterval: cfg.PowerUpInterval,
		SendQueueSize:   cfg.SendQueueSize,
		LobbyTTL:        cfg.LobbyTTL,
	})
	go func() {
		_ = wsh.RoomManager.Run(ctx, cfg.SweepInterval)
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           wsserver.NewRouter(wsh),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Int("tickRate", cfg.TickRate).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/openjamlab/bandroom/internal/adapters/http"
	wsignal "github.com/openjamlab/bandroom/internal/adapters/signal"
	"github.com/openjamlab/bandroom/internal/app"
	"github.com/openjamlab/bandroom/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	registry := app.NewRoomRegistry()
	sessions := app.NewSessionTable()

	ctl := &wsignal.Controller{
		Binder:     &app.SessionBinder{Registry: registry},
		Registry:   registry,
		Sessions:   sessions,
		Router:     &app.EventRouter{Registry: registry, Sessions: sessions},
		Limiter:    wsignal.NewEventRateLimiter(cfg.EventRateLimit, cfg.EventRateWindow),
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
	}

	r := router.SetupRouter(ctx, cfg, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("bandroom server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firmdata/dataroom/internal/config"
	"github.com/firmdata/dataroom/internal/database"
	"github.com/firmdata/dataroom/internal/handler"
	"github.com/firmdata/dataroom/internal/logger"
	"github.com/firmdata/dataroom/internal/middleware"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/firmdata/dataroom/internal/router"
	"github.com/firmdata/dataroom/internal/server"
	"github.com/firmdata/dataroom/internal/service"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.New()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log, loggerService, err := logger.New(cfg)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to initialize logger")
	}

	ctx := context.Background()

	if err := database.Migrate(ctx, log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	middlewares := middleware.NewMiddlewares(srv, services)
	handlers := handler.NewHandlers(srv, services)

	e := router.New(middlewares, handlers)

	srv.SetupHTTPServer(e)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if loggerService != nil {
		loggerService.Shutdown(10 * time.Second)
	}

	log.Info().Msg("shutdown complete")
}

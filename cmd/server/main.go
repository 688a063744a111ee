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

	"go.uber.org/zap"

	"numcom/server/config"
	"numcom/server/handlers"
	"numcom/server/logging"
	"numcom/server/persistence"
	"numcom/server/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("exiting")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	store, err := persistence.Open(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("initializing persistence: %w", err)
	}
	defer store.Close()

	// Initialize services. The world itself is generated on the first join.
	worldService := services.NewWorldService(cfg.World, cfg.Dynamic, logger)
	playerService := services.NewPlayerService()
	clientManager := handlers.NewClientManager(logger)
	gameService := services.NewGameService(worldService, playerService, clientManager, store, cfg.World.Seed, logger)

	server := handlers.NewServer(cfg.Server, gameService, store, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

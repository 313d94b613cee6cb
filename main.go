package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"notesync/config"
	"notesync/internal/note/repository"
	"notesync/internal/note/service"
	"notesync/pkg/logger"
	"notesync/router"
	"notesync/socket"
	"notesync/store"
)

func main() {
	envLoaded := config.LoadEnv()
	cfg := config.LoadServer()

	logger.Init(cfg.LogLevel)
	defer logger.Log.Sync()
	if !envLoaded {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var seed []store.Note
	if cfg.SeedNotes {
		seed = store.SeedNotes()
	}
	repo := repository.NewNoteRepository(seed)

	bus := service.NewEventBus()
	defer bus.Close()
	noteService := service.NewNoteService(repo, bus)

	// The hub pushes every committed change to websocket subscribers.
	hub := socket.NewHub(noteService.List)
	go hub.Run(ctx)
	if err := bus.Consume(ctx, hub.Publish); err != nil {
		logger.Sugar.Fatalf("Failed to subscribe hub to note events: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(noteService, hub, cfg.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Sugar.Errorf("Graceful shutdown failed: %v", err)
		}
	}()

	logger.Sugar.Infof("Server running on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Sugar.Fatalf("Server failed: %v", err)
	}
	logger.Sugar.Info("Server stopped")
}

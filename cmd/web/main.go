package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AdamBeresnev/silat-bracket/internal/config"
	"github.com/AdamBeresnev/silat-bracket/internal/db"
	"github.com/AdamBeresnev/silat-bracket/internal/service"
	"github.com/AdamBeresnev/silat-bracket/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		return err
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionStore := sqlite3store.New(database.DB)
	defer sessionStore.StopCleanup()
	sessionManager.Store = sessionStore

	brackets, err := store.OpenBracketStore(ctx, store.NewKVStore(database), store.WithLogger(logger))
	if err != nil {
		return err
	}

	svc := service.NewBracketService(brackets, store.NewAthleteStore(database), logger)
	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: newRouter(sessionManager, svc, cfg.AllowedOrigins),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

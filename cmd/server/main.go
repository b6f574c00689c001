package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/artdeck/artdeck-go/internal/auth"
	"github.com/artdeck/artdeck-go/internal/collab"
	"github.com/artdeck/artdeck-go/internal/config"
	mw "github.com/artdeck/artdeck-go/internal/middleware"
	"github.com/artdeck/artdeck-go/internal/store"
	"github.com/artdeck/artdeck-go/internal/store/postgres"
	"github.com/artdeck/artdeck-go/internal/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open event store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer events.Close()

	authService := auth.NewService(cfg.JWTSecret)

	hub := collab.NewHub(events, cfg.PersistTimeout)
	relay := collab.NewHandler(hub, authService, events, collab.HandlerConfig{
		OriginPatterns: cfg.AllowedOrigins,
		AuthTimeout:    cfg.AuthTimeout,
		HistoryLimit:   cfg.HistoryLimit,
	})

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Room history, used to hydrate late joiners
	api := r.PathPrefix("/rooms").Subrouter()
	api.Use(auth.Middleware(authService))
	api.HandleFunc("/{roomId}/events", relay.History).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws", relay.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Close connections first so no new events arrive while draining
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.EventLog, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		if cfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/wardbook/internal/auth"
	"github.com/dukerupert/wardbook/internal/backup"
	"github.com/dukerupert/wardbook/internal/cache"
	"github.com/dukerupert/wardbook/internal/config"
	"github.com/dukerupert/wardbook/internal/database"
	"github.com/dukerupert/wardbook/internal/docstore"
	"github.com/dukerupert/wardbook/internal/handler"
	"github.com/dukerupert/wardbook/internal/lifecycle"
	"github.com/dukerupert/wardbook/internal/logging"
	"github.com/dukerupert/wardbook/internal/metrics"
	"github.com/dukerupert/wardbook/internal/middleware"
	"github.com/dukerupert/wardbook/internal/repository"
	"github.com/dukerupert/wardbook/internal/server"
	ws "github.com/dukerupert/wardbook/internal/websocket"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	var db *database.DB
	if cfg.DBDriver == "postgres" {
		db, err = database.OpenPostgres(cfg.DatabaseURL)
	} else {
		db, err = database.Open(cfg.DBPath)
	}
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	m := metrics.New()
	store := docstore.NewSQLStore(db, m)

	rateLimiter := middleware.NewRateLimiter()
	rateLimiter.StartCleanup(ctx, 5*time.Minute)

	provider := auth.NewLocalProvider(db, []byte(cfg.JWTSecret), cfg.SessionTTL, rateLimiter, logger.With("component", "auth"))
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := provider.EnsureUser(ctx, cfg.AdminEmail, "Administrator", cfg.AdminPassword); err != nil {
			logger.Error("failed to seed admin user", "error", err)
			os.Exit(1)
		}
	}

	gate := auth.NewGate(provider, logger.With("component", "gate"))
	gate.Subscribe(m.ObserveTransition)

	repos := lifecycle.Repositories{
		Families:  repository.NewFamilyRepository(store, gate),
		Members:   repository.NewMemberRepository(store, gate),
		Requests:  repository.NewRequestRepository(store, gate),
		Dashboard: repository.NewDashboardRepository(store, gate),
	}
	hub := ws.NewHub(logger.With("component", "websocket"))
	ctrl := lifecycle.New(gate, repos, cache.New(m), ws.NewPresenter(hub), logger.With("component", "lifecycle"))

	backups := backup.NewManager(cfg.Backup, store, logger.With("component", "backup"))
	if backups.Status().State == backup.StateDisabled {
		logger.Info("backups disabled: S3 credentials missing")
	}

	provider.Init(ctx, "")

	api := handler.New(ctrl, gate, backups, logger.With("component", "api"))
	srv := server.New(api, gate, hub, m.Handler(), rateLimiter, cfg.AllowedOrigins, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Wardbook running at http://localhost:%s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

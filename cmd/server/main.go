// Package main is the entry point for the voxbet voice betting terminal API
// server.  It wires the utterance pipeline, the bet ledger, the WebSocket hub,
// and the HTTP server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // postgres driver
	"github.com/voxbet/terminal/internal/api"
	"github.com/voxbet/terminal/internal/config"
	"github.com/voxbet/terminal/internal/domain"
	"github.com/voxbet/terminal/internal/nlu"
	"github.com/voxbet/terminal/internal/repository"
	"github.com/voxbet/terminal/internal/service"
	"github.com/voxbet/terminal/internal/ws"
)

func main() {
	// ── 1. Config + logger ────────────────────────────────────────────────────
	// .env is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	var logHandler slog.Handler
	if cfg.IsProd() {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	logger.Info("starting voxbet terminal server", "env", cfg.Server.Env, "port", cfg.Server.Port)

	// ── 2. Bet store ──────────────────────────────────────────────────────────
	// DATABASE_DSN selects the durable backend; without it the ledger lives
	// in process memory, which is the default for a single terminal.
	var store repository.BetStore
	var db *sqlx.DB
	if cfg.Store.DSN != "" {
		var err error
		db, err = sqlx.Connect("postgres", cfg.Store.DSN)
		if err != nil {
			logger.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		db.SetMaxOpenConns(cfg.Store.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Store.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Store.ConnMaxLifetime)

		pg := repository.NewPostgresBetStore(db)
		if err = pg.EnsureSchema(context.Background()); err != nil {
			logger.Error("schema setup failed", "err", err)
			os.Exit(1)
		}
		store = pg
		logger.Info("postgres ledger connected")
	} else {
		store = repository.NewMemoryBetStore()
		logger.Info("using in-memory ledger")
	}

	// ── 3. Catalogue + pipeline ───────────────────────────────────────────────
	cat := domain.SeedCatalogue()
	parser := nlu.NewParser()
	resolver := nlu.NewResolver(cat)

	// ── 4. Services ───────────────────────────────────────────────────────────
	betSvc := service.NewBetService(store)
	cmdSvc := service.NewCommandService(parser, resolver, betSvc, cat, cfg)

	if cfg.OracleEnabled() {
		cmdSvc.SetOracle(service.NewOracleService(cfg, cat))
		logger.Info("oracle validator enabled", "model", cfg.Oracle.Model)
	}

	// ── 5. WebSocket Hub ──────────────────────────────────────────────────────
	var allowedOrigins []string
	if ori := os.Getenv("WS_ALLOWED_ORIGINS"); ori != "" {
		for _, o := range strings.Split(ori, ",") {
			allowedOrigins = append(allowedOrigins, strings.TrimSpace(o))
		}
	}
	hub := ws.NewHub(allowedOrigins)
	betSvc.SetBroadcaster(hub)
	cmdSvc.SetBroadcaster(hub)

	// ── 6. Root context + signal handling ─────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run()
	logger.Info("websocket hub started")

	// ── 7. HTTP Router ────────────────────────────────────────────────────────
	router := api.SetupRouter(api.RouterDeps{
		BetSvc:    betSvc,
		CmdSvc:    cmdSvc,
		Catalogue: cat,
		Hub:       hub,
		Cfg:       cfg,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// ── 8. Start server ───────────────────────────────────────────────────────
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
			stop() // trigger graceful shutdown
		}
	}()

	// ── 9. Graceful shutdown ──────────────────────────────────────────────────
	<-ctx.Done()
	logger.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}

	if db != nil {
		db.Close()
	}
	logger.Info("server stopped cleanly")
}

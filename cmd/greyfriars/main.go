// Command greyfriars serves the priory text adventure over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aldersgate/greyfriars/internal/api"
	"github.com/aldersgate/greyfriars/internal/content"
	"github.com/aldersgate/greyfriars/internal/engine"
	"github.com/aldersgate/greyfriars/internal/entropy"
	"github.com/aldersgate/greyfriars/internal/persistence"
	"github.com/aldersgate/greyfriars/internal/savecode"
)

const version = "0.3.0"

type config struct {
	Addr       string `env:"ADDR" envDefault:":8080"`
	DBPath     string `env:"DB_PATH" envDefault:"data/greyfriars.db"`
	ContentDir string `env:"CONTENT_DIR" envDefault:"content"`
	Secret     string `env:"SECRET,required"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parse config", "error", err)
		os.Exit(1)
	}

	// ── Storage ───────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("create data dir", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Content ───────────────────────────────────────────────────────
	lib, err := content.Load(cfg.ContentDir)
	if err != nil {
		slog.Error("load content", "dir", cfg.ContentDir, "error", err)
		os.Exit(1)
	}

	// ── Engine & HTTP host ────────────────────────────────────────────
	eng := engine.New(lib, db, savecode.New(cfg.Secret), entropy.Crypto(), version)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: (&api.Server{Engine: eng, Version: version}).Handler(),
	}

	go func() {
		slog.Info("greyfriars listening", "addr", cfg.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

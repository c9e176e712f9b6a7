package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pizzangooo/loyalty/internal/config"
	"github.com/pizzangooo/loyalty/internal/database"
	"github.com/pizzangooo/loyalty/internal/store"
	"github.com/pizzangooo/loyalty/internal/syncdoc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	kv, closeDB, err := openKV(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer closeDB()

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Route("/", syncdoc.NewHandler(kv).Routes)

	port := fmt.Sprintf(":%d", cfg.Syncd.Port)
	slog.Info("starting sync document server", "port", port, "driver", cfg.Syncd.Driver)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func openKV(ctx context.Context, cfg *config.Config) (store.KV, func(), error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Syncd.Driver {
	case "sqlite3":
		if db, err = database.NewSQLite(cfg.Syncd.DSN); err != nil {
			return nil, nil, err
		}

		if err = store.MigrateSQLite(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}

		return store.NewSQLiteKV(db), func() { db.Close() }, nil
	case "pgx":
		if db, err = database.NewPostgres(cfg.Syncd.DSN); err != nil {
			return nil, nil, err
		}

		if err = store.MigratePostgres(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}

		return store.NewPostgresKV(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Syncd.Driver)
	}
}

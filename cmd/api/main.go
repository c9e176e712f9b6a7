package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/pizzangooo/loyalty/internal/auth"
	"github.com/pizzangooo/loyalty/internal/cloud"
	"github.com/pizzangooo/loyalty/internal/config"
	"github.com/pizzangooo/loyalty/internal/database"
	"github.com/pizzangooo/loyalty/internal/export"
	loyaltyHttp "github.com/pizzangooo/loyalty/internal/http"
	cardHandler "github.com/pizzangooo/loyalty/internal/http/card"
	customerHandler "github.com/pizzangooo/loyalty/internal/http/customer"
	dataHandler "github.com/pizzangooo/loyalty/internal/http/data"
	loginHandler "github.com/pizzangooo/loyalty/internal/http/login"
	txHandler "github.com/pizzangooo/loyalty/internal/http/transaction"
	"github.com/pizzangooo/loyalty/internal/importer"
	"github.com/pizzangooo/loyalty/internal/loyalty"
	"github.com/pizzangooo/loyalty/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewSQLite(cfg.DB.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	if err := store.MigrateSQLite(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	st := store.New(store.NewSQLiteKV(db))
	cloudManager := cloud.NewManager(st, cfg.Sync.URL,
		cloud.WithHTTPClient(&http.Client{Timeout: cfg.Sync.Timeout}))
	st.SetPusher(cloudManager)

	// Best-effort startup pull; a dead or absent remote never blocks the app.
	if synced, err := cloudManager.Pull(ctx); err != nil {
		slog.Warn("startup sync failed, continuing with local data", "error", err)
	} else if synced {
		slog.Info("startup sync complete")
	}

	var (
		loyaltyService = loyalty.NewService(st)
		exportService  = export.NewService(st)
		importService  = importer.NewService(st)
		authService    = auth.New(cfg.App.Passcode, []byte(cfg.Auth.Secret), cfg.Auth.TTL)
	)

	var (
		loginH    = loginHandler.NewHandler(authService)
		customerH = customerHandler.NewHandler(loyaltyService)
		cardH     = cardHandler.NewHandler(loyaltyService)
		txH       = txHandler.NewHandler(loyaltyService)
		dataH     = dataHandler.NewHandler(exportService, importService, cloudManager)
	)

	router := loyaltyHttp.New(authService, loginH, customerH, cardH, txH, dataH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

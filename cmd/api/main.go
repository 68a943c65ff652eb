package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/minhhq/backoffice/internal/config"
	"github.com/minhhq/backoffice/internal/database"
	"github.com/minhhq/backoffice/internal/einvoice"
	"github.com/minhhq/backoffice/internal/export"
	backofficeHttp "github.com/minhhq/backoffice/internal/http"
	einvoiceHandler "github.com/minhhq/backoffice/internal/http/einvoice"
	exportHandler "github.com/minhhq/backoffice/internal/http/export"
	txHandler "github.com/minhhq/backoffice/internal/http/transaction"
	"github.com/minhhq/backoffice/internal/reconcile"
	"github.com/minhhq/backoffice/internal/transaction"
	txStore "github.com/minhhq/backoffice/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := txStore.New(db)

	provider := einvoice.NewClient(
		cfg.Provider.BaseURL,
		cfg.Provider.Username,
		cfg.Provider.Password,
		cfg.Provider.Timeout,
	)

	var (
		transactionService = transaction.NewService(store)
		reconcileService   = reconcile.NewService(store)
		einvoiceService    = einvoice.NewService(store, provider)
		exportService      = export.NewService(reconcileService)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService, reconcileService)
		einvoiceH    = einvoiceHandler.NewHandler(einvoiceService)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := backofficeHttp.New(transactionH, einvoiceH, exportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

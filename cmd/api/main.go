package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tembill/tembill/internal/batch"
	batchStore "github.com/tembill/tembill/internal/batch/store"
	"github.com/tembill/tembill/internal/carrier"
	"github.com/tembill/tembill/internal/carrier/att"
	"github.com/tembill/tembill/internal/carrier/centurylink"
	"github.com/tembill/tembill/internal/carrier/verizon"
	chargeStore "github.com/tembill/tembill/internal/charge/store"
	"github.com/tembill/tembill/internal/config"
	"github.com/tembill/tembill/internal/database"
	"github.com/tembill/tembill/internal/export"
	"github.com/tembill/tembill/internal/headers"
	tembillHttp "github.com/tembill/tembill/internal/http"
	batchHandler "github.com/tembill/tembill/internal/http/batches"
	"github.com/tembill/tembill/internal/ingest"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	catalog, err := headers.Load(cfg.HeadersFile)
	if err != nil {
		slog.Error("failed to load header catalog", "error", err)
		os.Exit(1)
	}

	charges := chargeStore.New(db)

	registry := carrier.NewRegistry()
	registry.Register("att", att.New(charges))
	registry.Register("verizon", verizon.New(charges))
	registry.Register("centurylink", centurylink.New(charges))

	var (
		batchService  = batch.NewService(batchStore.New(db), registry)
		ingestService = ingest.NewService(batchService, catalog)
		exportService = export.NewService(batchService)
	)

	batchH := batchHandler.NewHandler(ingestService, batchService, exportService, charges, cfg.Upload.MaxSize)

	router := tembillHttp.New(batchH, cfg.Auth.Secret)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	server := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

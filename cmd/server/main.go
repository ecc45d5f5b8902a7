package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tagteamprinting/printquote/internal/config"
	"github.com/tagteamprinting/printquote/internal/customers"
	"github.com/tagteamprinting/printquote/internal/db"
	"github.com/tagteamprinting/printquote/internal/migrations"
	"github.com/tagteamprinting/printquote/internal/orders"
	"github.com/tagteamprinting/printquote/internal/pricebook"
	"github.com/tagteamprinting/printquote/internal/quotes"
	"github.com/tagteamprinting/printquote/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, cfg.MigrationsDir); err != nil {
			logger.Error("run migrations failed", "error", err)
			os.Exit(1)
		}
	}

	stats, err := seed.Run(database)
	if err != nil {
		logger.Error("seed pricebook failed", "error", err)
		os.Exit(1)
	}
	if stats.Inserts > 0 {
		logger.Info("pricebook seeded", "inserts", stats.Inserts)
	}

	pricebookRepo := pricebook.NewRepository(database)
	quoteService := quotes.NewService(quotes.NewRepository(database), pricebookRepo)
	customerRepo := customers.NewRepository(database)
	orderService := orders.NewService(orders.NewRepository(database), quoteService, customerRepo)

	quoteHandler := quotes.NewHandler(logger, quoteService)
	customerHandler := customers.NewHandler(logger, customerRepo)
	orderHandler := orders.NewHandler(logger, orderService)
	pricebookHandler := pricebook.NewHandler(logger, pricebookRepo)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		quoteHandler.MountRoutes(r)
		customerHandler.MountRoutes(r)
		orderHandler.MountRoutes(r)
	})
	r.Route("/admin", func(r chi.Router) {
		pricebookHandler.MountRoutes(r)
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("listening", "addr", cfg.Addr, "env", cfg.AppEnv)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

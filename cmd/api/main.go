package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/Rohit-3/Ratan-agri-tech/internal/config"
	"github.com/Rohit-3/Ratan-agri-tech/internal/database"
	apiHttp "github.com/Rohit-3/Ratan-agri-tech/internal/http"
	dashboardHandler "github.com/Rohit-3/Ratan-agri-tech/internal/http/dashboard"
	merchantHandler "github.com/Rohit-3/Ratan-agri-tech/internal/http/merchant"
	paymentHandler "github.com/Rohit-3/Ratan-agri-tech/internal/http/payment"
	"github.com/Rohit-3/Ratan-agri-tech/internal/invoice"
	"github.com/Rohit-3/Ratan-agri-tech/internal/merchant"
	merchantStore "github.com/Rohit-3/Ratan-agri-tech/internal/merchant/store"
	"github.com/Rohit-3/Ratan-agri-tech/internal/notify"
	"github.com/Rohit-3/Ratan-agri-tech/internal/payment"
	paymentStore "github.com/Rohit-3/Ratan-agri-tech/internal/payment/store"
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

	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	docs, err := invoice.NewFileStore(cfg.Invoice.Dir)
	if err != nil {
		slog.Error("failed to open invoice store", "error", err)
		os.Exit(1)
	}

	merchantService := merchant.NewService(merchantStore.New(db))

	if err := merchantService.Seed(ctx, &merchant.Profile{
		Name:      cfg.Merchant.Name,
		Email:     cfg.Merchant.Email,
		Phone:     cfg.Merchant.Phone,
		Address:   cfg.Merchant.Address,
		UPIHandle: cfg.Merchant.UPIHandle,
	}); err != nil {
		slog.Error("failed to seed merchant profile", "error", err)
		os.Exit(1)
	}

	mailer := notify.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	paymentService := payment.NewService(
		paymentStore.New(db),
		merchantService,
		invoice.NewBuilder(),
		docs,
		mailer,
	)

	var (
		paymentH   = paymentHandler.NewHandler(paymentService)
		merchantH  = merchantHandler.NewHandler(merchantService)
		dashboardH = dashboardHandler.NewHandler(paymentService)
	)

	router := apiHttp.New(paymentH, merchantH, dashboardH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

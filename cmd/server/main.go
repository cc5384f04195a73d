package main

import (
	"fmt"
	"os"

	"github.com/invoicemaker/backend/internal/api"
	"github.com/invoicemaker/backend/internal/config"
	"github.com/invoicemaker/backend/internal/database"
	"github.com/invoicemaker/backend/internal/database/repository"
	"github.com/invoicemaker/backend/internal/database/service"
	"github.com/invoicemaker/backend/internal/handler"
	"github.com/invoicemaker/backend/internal/logger"
	"github.com/invoicemaker/backend/internal/middleware"
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting invoicemaker backend...",
		"environment", cfg.AppEnv,
	)

	// 3. Connect to Database
	db, err := database.ConnectDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	deletedRepo := repository.NewDeletedInvoiceRepository(db)

	// 5. Initialize Revocation Ledger. Logout correctness depends on
	// it, so an unreachable ledger is fatal.
	ledger, err := database.NewRevocationLedger(cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to connect to Redis for token revocation", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, ledger, cfg, appLogger)
	invoiceService := service.NewInvoiceService(invoiceRepo, deletedRepo, userRepo, cfg, appLogger)

	// 7. Initialize Login Rate Limiter (degrades to no-op without Redis)
	rateLimiter, err := middleware.NewRateLimiter(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis, using no-op rate limiter", "error", err)
		rateLimiter = middleware.NewNoOpRateLimiter(appLogger)
	}
	defer rateLimiter.Close()

	// 8. Initialize Handlers & Middleware
	authHandler := handler.NewAuthHandler(authService, rateLimiter, appLogger)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, appLogger)
	authMiddleware := middleware.NewAuthMiddleware(authService, appLogger)

	// 9. Setup Router
	r := api.SetupRouter(authHandler, invoiceHandler, authMiddleware)

	// 10. Start HTTP Server
	addr := fmt.Sprintf(":%s", cfg.ApiServicePort)
	appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", addr)
	if err := r.Run(addr); err != nil {
		appLogger.Error("❌ HTTP Server failed to start", "error", err)
		os.Exit(1)
	}
}

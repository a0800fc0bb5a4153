package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-receipts/internal/application/service"
	"github.com/sangkips/investify-receipts/internal/config"
	"github.com/sangkips/investify-receipts/internal/infrastructure/database"
	"github.com/sangkips/investify-receipts/internal/infrastructure/repository"
	"github.com/sangkips/investify-receipts/internal/presentation/http/handler"
	"github.com/sangkips/investify-receipts/internal/presentation/http/routes"
	"github.com/sangkips/investify-receipts/internal/printing"
	"github.com/sangkips/investify-receipts/internal/receipt"
	"github.com/sangkips/investify-receipts/pkg/printer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	storeProfileRepo := repository.NewStoreProfileRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("Warning: Failed to purge expired idempotency keys: %v", err)
	}

	// Initialize the shared thermal printer surface
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	var surface printer.Surface
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	} else if cfg.Printer.Type != "none" && cfg.Printer.Type != "" {
		surface = printer.NewSpoolSurface(thermalPrinter)
	}

	// Initialize the fallback output target
	fallback, err := printer.NewOpenerFromConfig(
		cfg.Printer.FallbackType,
		cfg.Printer.FallbackUSBPath,
		cfg.Printer.FallbackAddress,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize fallback printer: %v", err)
		fallback = nil
	}

	formatter := receipt.NewFormatter(cfg.Printer.Width, cfg.Printer.Location())
	dispatcher := printing.NewDispatcher(surface, fallback, formatter, printing.Config{
		MaxAttempts: cfg.Printer.MaxAttempts,
		SettleDelay: cfg.Printer.SettleDelay,
		RetryDelay:  cfg.Printer.RetryDelay,
	})

	// Initialize services
	printerService := service.NewPrinterService(
		dispatcher,
		formatter,
		storeProfileRepo,
		thermalPrinter,
		cfg.Printer.Type,
		cfg.Printer.FallbackType,
	)
	storeProfileService := service.NewStoreProfileService(storeProfileRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Printer:      handler.NewPrinterHandler(printerService),
		StoreProfile: handler.NewStoreProfileHandler(storeProfileService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)
	log.Printf("Printer: %s (fallback: %s)", cfg.Printer.Type, cfg.Printer.FallbackType)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

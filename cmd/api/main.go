package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-ledger/internal/application/service"
	"github.com/sangkips/pos-ledger/internal/config"
	domainRepo "github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/internal/infrastructure/database"
	"github.com/sangkips/pos-ledger/internal/infrastructure/daystatus"
	"github.com/sangkips/pos-ledger/internal/infrastructure/repository"
	"github.com/sangkips/pos-ledger/internal/presentation/http/handler"
	"github.com/sangkips/pos-ledger/internal/presentation/http/routes"
	"github.com/sangkips/pos-ledger/pkg/logger"
	"github.com/sangkips/pos-ledger/pkg/printer"
	"github.com/sangkips/pos-ledger/pkg/retry"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	logger.SetDefault(zl)
	defer func() { _ = zl.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	inventoryRepo := repository.NewInventoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	creditLedgerRepo := repository.NewCreditLedgerRepository(db)
	dayRepo := repository.NewBusinessDayRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	uow := repository.NewUnitOfWork(db, retry.Policy{
		MaxAttempts: cfg.Ledger.MaxAttempts,
		BaseDelay:   cfg.Ledger.RetryBase,
	})

	// Day status is read on every sale; cache it when redis is configured.
	var days domainRepo.DayStatusChecker = dayRepo
	var dayCache domainRepo.DayStatusPublisher
	if cfg.Redis.Addr != "" {
		client, err := daystatus.NewClient(ctx, cfg.Redis)
		if err != nil {
			zl.Warn("redis unavailable, reading day status from the database", zap.Error(err))
		} else {
			defer client.Close()
			cache := daystatus.NewRedisCache(client, dayRepo, cfg.Redis.DayStatusTTL)
			days = cache
			dayCache = cache
		}
	}

	// Initialize services
	saleService := service.NewSaleService(uow, saleRepo, days, service.SaleOptions{
		Location:     cfg.Ledger.Location(),
		NewItemStock: cfg.Ledger.NewItemStock,
		ReceiptTag:   cfg.Ledger.ReceiptTag,
	})
	inventoryService := service.NewInventoryService(inventoryRepo)
	customerService := service.NewCustomerService(customerRepo)
	creditLedgerService := service.NewCreditLedgerService(creditLedgerRepo, customerRepo)
	dayService := service.NewBusinessDayService(dayRepo, dayCache)

	receiptPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		zl.Warn("failed to initialize printer, receipts will not be printed", zap.Error(err))
		receiptPrinter, _ = printer.New(printer.Config{Type: printer.TypeNone})
	}
	receiptService := service.NewReceiptService(receiptPrinter, saleRepo, service.ReceiptOptions{
		StoreName:   cfg.Printer.StoreName,
		Footer:      cfg.Printer.Footer,
		Width:       cfg.Printer.Width,
		Location:    cfg.Ledger.Location(),
		ReceiptTag:  cfg.Ledger.ReceiptTag,
		PrinterType: cfg.Printer.Type,
	})

	// Initialize handlers
	handlers := &routes.Handlers{
		Sale:        handler.NewSaleHandler(saleService, cfg.Ledger.Location()),
		Inventory:   handler.NewInventoryHandler(inventoryService),
		Customer:    handler.NewCustomerHandler(customerService),
		Ledger:      handler.NewLedgerHandler(creditLedgerService),
		BusinessDay: handler.NewBusinessDayHandler(dayService),
		Receipt:     handler.NewReceiptHandler(receiptService),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}


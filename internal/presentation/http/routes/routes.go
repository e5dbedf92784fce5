package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-ledger/internal/config"
	domainRepo "github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-ledger/internal/presentation/http/handler"
	"github.com/sangkips/pos-ledger/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Sale        *handler.SaleHandler
	Inventory   *handler.InventoryHandler
	Customer    *handler.CustomerHandler
	Ledger      *handler.LedgerHandler
	BusinessDay *handler.BusinessDayHandler
	Receipt     *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// RateLimiter is optional; requests are not limited when it is nil.
	RateLimiter *middleware.IPRateLimiter
}

// NewRateLimiter builds the per-IP limiter from the rate limit settings.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.IPRateLimiter {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlCfg.BurstSize = cfg.Requests
	}
	rlCfg.CleanupInterval = 5 * time.Minute
	rlCfg.EntryTTL = 10 * time.Minute
	return middleware.NewIPRateLimiter(rlCfg)
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerSaleRoutes(v1, h, deps)
		registerInventoryRoutes(v1, h)
		registerCustomerRoutes(v1, h)
		registerLedgerRoutes(v1, h)
		registerDayRoutes(v1, h)
		v1.GET("/printer/status", h.Receipt.Status)
	}

	return router
}

func registerSaleRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := v1.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		// a retried POST must not record the sale twice
		sales.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/void", h.Sale.Void)
		sales.POST("/:id/print", h.Receipt.Print)
	}
}

func registerInventoryRoutes(v1 *gin.RouterGroup, h *Handlers) {
	inventory := v1.Group("/inventory")
	{
		inventory.GET("", h.Inventory.List)
		inventory.POST("", h.Inventory.Create)
		inventory.GET("/:id", h.Inventory.Get)
		inventory.PUT("/:id", h.Inventory.Update)
	}
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.POST("/:id/credits", h.Ledger.RecordCredit)
		customers.POST("/:id/payments", h.Ledger.RecordPayment)
		customers.GET("/:id/ledger", h.Ledger.ListEntries)
		customers.GET("/:id/balance", h.Ledger.Balance)
	}
}

func registerLedgerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	ledger := v1.Group("/ledger")
	{
		ledger.GET("/balances", h.Ledger.Balances)
		ledger.DELETE("/:entryId", h.Ledger.DeleteEntry)
	}
}

func registerDayRoutes(v1 *gin.RouterGroup, h *Handlers) {
	days := v1.Group("/days")
	{
		days.GET("/:date", h.BusinessDay.Status)
		days.POST("/:date/close", h.BusinessDay.Close)
		days.POST("/:date/reopen", h.BusinessDay.Reopen)
	}
}

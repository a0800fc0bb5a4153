package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-receipts/internal/config"
	domainRepo "github.com/sangkips/investify-receipts/internal/domain/repository"
	"github.com/sangkips/investify-receipts/internal/presentation/http/handler"
	"github.com/sangkips/investify-receipts/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Printer      *handler.PrinterHandler
	StoreProfile *handler.StoreProfileHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		registerPrinterRoutes(v1, h, deps)
		registerStoreProfileRoutes(v1, h)
	}

	return router
}

func rateLimiterConfig(cfg *config.RateLimitConfig) middleware.RateLimiterConfig {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlCfg.BurstSize = cfg.Requests
	}
	rlCfg.CleanupInterval = 5 * time.Minute
	rlCfg.EntryTTL = 10 * time.Minute
	return rlCfg
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	rateLimiter := middleware.NewClientRateLimiter(rateLimiterConfig(&deps.Cfg.RateLimit))
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	printerGroup := v1.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/preview", h.Printer.PreviewReceipt)
		printerGroup.POST("/test", rateLimiter.Middleware(), h.Printer.TestPrint)
		// Receipt printing replays earlier responses for a repeated Idempotency-Key
		printerGroup.POST("/receipt", rateLimiter.Middleware(), idempotency, h.Printer.PrintReceipt)
	}
}

func registerStoreProfileRoutes(v1 *gin.RouterGroup, h *Handlers) {
	profile := v1.Group("/store-profile")
	{
		profile.GET("", h.StoreProfile.GetProfile)
		profile.PUT("", h.StoreProfile.UpdateProfile)
	}
}

package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-checkout/internal/config"
	domainRepo "github.com/sangkips/salon-checkout/internal/domain/repository"
	"github.com/sangkips/salon-checkout/internal/infrastructure/metrics"
	"github.com/sangkips/salon-checkout/internal/presentation/http/handler"
	"github.com/sangkips/salon-checkout/internal/presentation/http/middleware"
	"github.com/sangkips/salon-checkout/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Checkout *handler.CheckoutHandler
	Catalog  *handler.CatalogHandler
	Client   *handler.ClientHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
	RateLimiter     *middleware.CashierRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerCheckoutRoutes(protected, h, deps)
		registerCatalogRoutes(protected, h)
		registerClientRoutes(protected, h)
		registerPrinterRoutes(protected, h)
	}

	return router
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	checkouts := protected.Group("/checkouts")
	{
		checkouts.POST("", h.Checkout.Open)
		checkouts.GET("", h.Checkout.List)
		checkouts.POST("/from-invoice/:invoice_id", h.Checkout.OpenFromInvoice)
		checkouts.GET("/:id", h.Checkout.Get)
		checkouts.DELETE("/:id", h.Checkout.Discard)
		checkouts.PUT("/:id/client", h.Checkout.SetClient)
		checkouts.PUT("/:id/header", h.Checkout.UpdateHeader)

		checkouts.POST("/:id/lines", h.Checkout.AddLine)
		checkouts.PUT("/:id/lines/:line_id", h.Checkout.UpdateLine)
		checkouts.DELETE("/:id/lines/:line_id", h.Checkout.RemoveLine)

		checkouts.POST("/:id/deposits/:deposit_id/toggle", h.Checkout.ToggleDeposit)
		checkouts.POST("/:id/deposits/auto-apply", h.Checkout.AutoApplyDeposits)

		checkouts.POST("/:id/payments", h.Checkout.AddPayment)
		checkouts.PUT("/:id/payments/:payment_id", h.Checkout.UpdatePayment)
		checkouts.DELETE("/:id/payments/:payment_id", h.Checkout.RemovePayment)

		checkouts.PUT("/:id/previous-payments/:payment_id", h.Checkout.EditPreviousPayment)
		checkouts.DELETE("/:id/previous-payments/:payment_id", h.Checkout.RemovePreviousPayment)
		checkouts.DELETE("/:id/previous-deposits/:deposit_id", h.Checkout.RemovePreviousDeposit)

		// Settling uses idempotency middleware so a retried request never settles twice
		checkouts.POST("/:id/submit", idempotent, h.Checkout.Submit)
		checkouts.POST("/:id/hold", idempotent, h.Checkout.Hold)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	catalog := protected.Group("/catalog")
	{
		catalog.GET("/services", h.Catalog.Services)
		catalog.GET("/products", h.Catalog.Products)
		catalog.GET("/specialists", h.Catalog.Specialists)
		catalog.GET("/discounts", h.Catalog.Discounts)
		catalog.GET("/payment-methods", h.Catalog.PaymentMethods)
		catalog.POST("/refresh", middleware.RequireRole(utils.RoleSupervisor), h.Catalog.Refresh)
	}
}

func registerClientRoutes(protected *gin.RouterGroup, h *Handlers) {
	clients := protected.Group("/clients")
	{
		clients.GET("/search", h.Client.Search)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.GET("/:id/deposits", h.Client.Deposits)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/receipts/:invoice_id", h.Printer.PrintReceipt)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/config"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	domainRepo "github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/internal/presentation/http/handler"
	"github.com/sangkips/kasir-api/internal/presentation/http/middleware"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/metrics"
	"github.com/sangkips/kasir-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Sale    *handler.SaleHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Sessions        *service.SessionRegistry
	RateLimiter     *middleware.RateLimiter
	Log             *logger.Logger
	HTTPMetrics     *metrics.HTTPMetrics
	Gatherer        prometheus.Gatherer
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(deps.Log))
	router.Use(middleware.LoggerMiddleware(deps.Log, deps.HTTPMetrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Log))
		registerProfileRoutes(protected, h)
		registerAdminRoutes(protected, h)

		// Point-of-sale routes work for guests and signed-in users alike.
		sessions := v1.Group("")
		sessions.Use(middleware.OptionalAuthMiddleware(deps.JWTManager, deps.Log))
		sessions.Use(middleware.SessionResolver(deps.Sessions, deps.Log))
		if deps.RateLimiter != nil {
			sessions.Use(deps.RateLimiter.Middleware())
		}
		registerSessionRoutes(sessions, h, deps)

		registerPrinterRoutes(v1, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}
	// The till asks for the admin password without a signed-in admin.
	v1.POST("/admin/verify", h.Admin.Verify)
}

func registerProfileRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/profile", h.Auth.Profile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/reconciliation", h.Admin.Reconciliation)
	}
}

func registerSessionRoutes(sessions *gin.RouterGroup, h *Handlers, deps *Deps) {
	products := sessions.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.POST("/reload", h.Product.Reload)
		products.PATCH("/:id", h.Product.Update)
	}

	cart := sessions.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:product_id", h.Cart.UpdateItem)
		cart.DELETE("/items/:product_id", h.Cart.RemoveItem)
	}

	idem := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo, Log: deps.Log}
	// Checkout tolerates clients without keys; manual receipts do not.
	sessions.POST("/checkout", middleware.Idempotency(idem), h.Sale.Checkout)

	receipts := sessions.Group("/receipts")
	{
		receipts.GET("", h.Sale.ListReceipts)
		receipts.POST("/manual", middleware.IdempotencyRequired(idem), h.Sale.CreateManual)
		receipts.GET("/:id", h.Sale.GetReceipt)
		receipts.POST("/:id/print", h.Sale.PrintReceipt)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printerGroup := v1.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/connect", h.Printer.Connect)
		printerGroup.POST("/disconnect", h.Printer.Disconnect)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}

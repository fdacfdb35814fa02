package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mcare/storefront/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(NewRateLimiter(cfg.RateLimit.PerIP).Middleware())
	{
		shop := v1.Group("")
		shop.Use(SessionMiddleware(cfg.Server.Environment == "production"))
		{
			shop.GET("/cart", handler.GetCart)
			shop.POST("/cart/items", handler.AddItem)
			shop.PUT("/cart/items/:id", handler.SetQuantity)
			shop.POST("/cart/items/:id/increment", handler.IncrementItem)
			shop.POST("/cart/items/:id/decrement", handler.DecrementItem)
			shop.DELETE("/cart/items/:id", handler.RemoveItem)
			shop.POST("/checkout", handler.Checkout)
		}

		v1.POST("/newsletter", handler.Subscribe)

		structured := v1.Group("/structured-data")
		{
			structured.POST("/annotate", handler.AnnotatePage)
			structured.POST("/products", handler.ProductGraph)
		}
	}

	return router
}

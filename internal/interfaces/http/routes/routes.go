// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/cart-service/internal/config"
	"github.com/your-org/cart-service/internal/domain/cart"
	"github.com/your-org/cart-service/internal/interfaces/http/handlers"
	"github.com/your-org/cart-service/internal/interfaces/http/middleware"
)

// SetupRoutes wires all cart routes onto the API group
func SetupRoutes(rg *gin.RouterGroup, cartService *cart.Service, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(cartService, cfg)

	carts := rg.Group("/carts")
	{
		// Public storefront endpoints
		carts.POST("", cartHandler.UpsertCart)
		carts.POST("/opt-in", cartHandler.OptIn)
		carts.GET("/:cart_id", cartHandler.GetCart)

		// Administrative endpoints
		admin := carts.Group("")
		admin.Use(middleware.AuthMiddleware(cfg))
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("", cartHandler.ListCarts)
			admin.DELETE("", cartHandler.DeleteCart)
		}
	}
}

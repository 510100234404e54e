package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/config"
	cartControllers "github.com/KNagaSaiSatyaTeja/ecommerce-api/controllers/cart"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/middleware"
)

// SetupCartRoutes registers the cart endpoints. Every one of them acts on
// the authenticated user's own cart.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cart := api.Group("/cart")
	cart.Use(middleware.ValidateToken(db, cfg.JWTSecret))
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.POST("", cartControllers.AddToCart(db))
		cart.DELETE("", cartControllers.ClearCart(db))
		cart.DELETE("/items", cartControllers.RemoveSelected(db))
		cart.DELETE("/items/:productId", cartControllers.RemoveFromCart(db))
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/config"
	orderControllers "github.com/KNagaSaiSatyaTeja/ecommerce-api/controllers/order"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/middleware"
)

// SetupOrderRoutes registers checkout, order history and the admin order
// management endpoints.
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	orders := api.Group("/orders")

	// Browsers cannot set an Authorization header on a websocket upgrade,
	// so the event stream sits outside the auth group like the rest of
	// the dashboard push channels.
	orders.GET("/ws", orderControllers.OrderWebSocket)

	auth := orders.Group("")
	auth.Use(middleware.ValidateToken(db, cfg.JWTSecret))
	{
		auth.POST("", orderControllers.CreateOrder(db))
		auth.POST("/pay", orderControllers.ProcessPayment())
		auth.GET("/my-orders", orderControllers.GetMyOrders(db))
		auth.GET("/:id", orderControllers.GetOrderByID(db))

		auth.GET("", middleware.RequireAdmin, orderControllers.GetAllOrders(db))
		auth.PATCH("/:id/status", middleware.RequireAdmin, orderControllers.UpdateOrderStatus(db))
	}
}

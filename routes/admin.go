package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/config"
	adminControllers "github.com/KNagaSaiSatyaTeja/ecommerce-api/controllers/admin"
	cartControllers "github.com/KNagaSaiSatyaTeja/ecommerce-api/controllers/cart"
	userControllers "github.com/KNagaSaiSatyaTeja/ecommerce-api/controllers/user"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/middleware"
)

// SetupAdminRoutes registers the dashboard endpoints. All of them require
// an admin token.
func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	admin := api.Group("/admin")
	admin.Use(middleware.ValidateToken(db, cfg.JWTSecret), middleware.RequireAdmin)
	{
		admin.GET("/stats", adminControllers.GetDashboardStats(db, rdb))
		admin.PATCH("/users/:id/role", adminControllers.UpdateUserRole(db))
		admin.DELETE("/users/:id", userControllers.DeleteUser(db))
		admin.GET("/user-cart/:user_id", cartControllers.GetUserCartByAdmin(db))
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/config"
	userControllers "github.com/KNagaSaiSatyaTeja/ecommerce-api/controllers/user"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/middleware"
)

// SetupUserRoutes registers signup/login plus the account endpoints.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	users := api.Group("/users")
	{
		// Public
		users.POST("", userControllers.CreateUser(db, cfg.UploadDir))
		users.POST("/login", middleware.RateLimiter(rdb), userControllers.LoginUser(db, cfg.JWTSecret, cfg.JWTExpireHours))

		// Authenticated
		auth := users.Group("")
		auth.Use(middleware.ValidateToken(db, cfg.JWTSecret))
		{
			auth.GET("", middleware.RequireAdmin, userControllers.GetAllUsers(db))
			auth.GET("/byEmail", userControllers.GetUserByEmail(db))
			auth.GET("/:id", userControllers.GetUserByID(db))
			auth.PATCH("/:id", userControllers.UpdateUser(db))
			auth.DELETE("/:id", middleware.RequireAdmin, userControllers.DeleteUser(db))
		}
	}
}

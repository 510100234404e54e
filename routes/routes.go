package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/config"
)

// SetupRoutes is the single entry point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    true,
			"message":   "Server is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")

	SetupUserRoutes(api, db, rdb, cfg)
	SetupProductRoutes(api, db, rdb, cfg)
	SetupCartRoutes(api, db, cfg)
	SetupOrderRoutes(api, db, cfg)
	SetupAdminRoutes(api, db, rdb, cfg)
}

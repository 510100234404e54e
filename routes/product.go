package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/config"
	productControllers "github.com/KNagaSaiSatyaTeja/ecommerce-api/controllers/product"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/middleware"
)

// SetupProductRoutes registers the public catalog and the admin-only
// catalog management endpoints.
func SetupProductRoutes(api *gin.RouterGroup, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	products := api.Group("/products")
	{
		products.GET("", productControllers.GetProducts(db, rdb))

		admin := products.Group("")
		admin.Use(middleware.ValidateToken(db, cfg.JWTSecret), middleware.RequireAdmin)
		{
			admin.POST("", productControllers.CreateProduct(db, rdb, cfg.UploadDir))
			admin.GET("/export", productControllers.ExportProductsToExcel(db))
			admin.PUT("/:id", productControllers.UpdateProduct(db, rdb, cfg.UploadDir))
			admin.DELETE("/:id", productControllers.DeleteProduct(db, rdb))
		}

		products.GET("/:id", productControllers.GetProductByID(db))
	}
}

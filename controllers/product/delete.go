package productControllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/utils"
)

// DELETE /api/products/:id  (admin)
//
// Existing order items keep their snapshot of the product; carts simply
// stop resolving the line.
func DeleteProduct(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid product id"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Product not found"})
			return
		}

		if err := db.Delete(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to delete product"})
			return
		}

		_ = utils.DeleteCache(context.Background(), rdb, productListCacheKey)
		logrus.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("Product deleted")
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Product deleted successfully"})
	}
}

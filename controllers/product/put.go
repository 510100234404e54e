package productControllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/utils"
)

// PUT /api/products/:id  (admin)
//
// Multipart like create; fields left empty keep their current value, and
// the image is replaced only when a new file is sent.
func UpdateProduct(db *gorm.DB, rdb *redis.Client, uploadDir string) gin.HandlerFunc {
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

		updates := make(map[string]interface{})
		if name := c.PostForm("name"); name != "" {
			updates["name"] = name
		}
		if priceStr := c.PostForm("price"); priceStr != "" {
			price, err := strconv.ParseFloat(priceStr, 64)
			if err != nil || price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Price must be a number greater than 0"})
				return
			}
			updates["price"] = price
		}
		if category := c.PostForm("category"); category != "" {
			updates["category"] = category
		}
		if description := c.PostForm("description"); description != "" {
			updates["description"] = description
		}

		imageURL, err := utils.SaveImage(c, "image", uploadDir, "products")
		if err != nil && !errors.Is(err, utils.ErrNoFile) {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": err.Error()})
			return
		}
		if imageURL != "" {
			updates["image"] = imageURL
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to update product"})
				return
			}
			_ = utils.DeleteCache(context.Background(), rdb, productListCacheKey)
			logrus.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("Product updated")
		}

		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Product updated successfully", "data": product})
	}
}

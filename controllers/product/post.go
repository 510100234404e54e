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

// POST /api/products  (admin, multipart with image)
func CreateProduct(db *gorm.DB, rdb *redis.Client, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		category := c.PostForm("category")
		description := c.PostForm("description")
		if name == "" || priceStr == "" || category == "" || description == "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "name, price, category and description are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Price must be a number greater than 0"})
			return
		}

		imageURL, err := utils.SaveImage(c, "image", uploadDir, "products")
		if err != nil && !errors.Is(err, utils.ErrNoFile) {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": err.Error()})
			return
		}

		product := models.Product{
			Name:        name,
			Price:       price,
			Category:    category,
			Description: description,
			Image:       imageURL,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to create product"})
			return
		}

		_ = utils.DeleteCache(context.Background(), rdb, productListCacheKey)
		logrus.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("Product created")
		c.JSON(http.StatusCreated, gin.H{"status": true, "message": "Product created successfully", "data": product})
	}
}

package productControllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/utils"
)

const productListCacheKey = "products:all"

var sortableColumns = map[string]bool{
	"created_at": true,
	"price":      true,
	"name":       true,
}

// GET /api/products
//
// Supports search, category and price-range filters plus sorting. The
// unfiltered listing is served from Redis for a short TTL.
func GetProducts(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		category := c.Query("category")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		sortBy := c.DefaultQuery("sort_by", "created_at")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}
		if !sortableColumns[sortBy] {
			sortBy = "created_at"
		}

		unfiltered := search == "" && category == "" && minPriceStr == "" && maxPriceStr == "" &&
			sortBy == "created_at" && sortOrder == "desc"

		ctx := context.Background()
		if unfiltered {
			var cached []models.Product
			if found, err := utils.GetCache(ctx, rdb, productListCacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"status": true, "message": "Products fetched successfully", "data": cached})
				return
			}
		}

		query := db.Model(&models.Product{})
		if search != "" {
			likePattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", likePattern, likePattern)
		}
		if category != "" {
			query = query.Where("category = ?", category)
		}
		if minPriceStr != "" {
			mp, err := strconv.ParseFloat(minPriceStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid min_price"})
				return
			}
			query = query.Where("price >= ?", mp)
		}
		if maxPriceStr != "" {
			mp, err := strconv.ParseFloat(maxPriceStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid max_price"})
				return
			}
			query = query.Where("price <= ?", mp)
		}

		var products []models.Product
		if err := query.Order(sortBy + " " + sortOrder).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch products"})
			return
		}

		if unfiltered {
			_ = utils.SetCache(ctx, rdb, productListCacheKey, products, 60*time.Second)
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Products fetched successfully", "data": products})
	}
}

// GET /api/products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
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
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Product fetched successfully", "data": product})
	}
}

package adminControllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/utils"
)

const statsCacheKey = "admin:stats"

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type DashboardStats struct {
	TotalUsers         int64           `json:"total_users"`
	TotalAdmins        int64           `json:"total_admins"`
	TotalProducts      int64           `json:"total_products"`
	TotalCarts         int64           `json:"total_carts"`
	RecentUsers        int64           `json:"recent_users"` // signups in the last 7 days
	ProductsByCategory []CategoryCount `json:"products_by_category"`
}

type UpdateRoleInput struct {
	Role string `json:"role" binding:"required"`
}

// GET /api/admin/stats
func GetDashboardStats(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		var cached DashboardStats
		if found, err := utils.GetCache(ctx, rdb, statsCacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"status": true, "message": "Dashboard stats fetched successfully", "data": cached})
			return
		}

		var stats DashboardStats
		counts := []struct {
			dest  *int64
			query *gorm.DB
		}{
			{&stats.TotalUsers, db.Model(&models.User{}).Where("role = ?", models.RoleUser)},
			{&stats.TotalAdmins, db.Model(&models.User{}).Where("role = ?", models.RoleAdmin)},
			{&stats.TotalProducts, db.Model(&models.Product{})},
			{&stats.TotalCarts, db.Model(&models.Cart{})},
			{&stats.RecentUsers, db.Model(&models.User{}).
				Where("role = ? AND created_at >= ?", models.RoleUser, time.Now().AddDate(0, 0, -7))},
		}
		for _, cnt := range counts {
			if err := cnt.query.Count(cnt.dest).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch stats"})
				return
			}
		}

		if err := db.Model(&models.Product{}).
			Select("category, count(*) as count").
			Group("category").
			Scan(&stats.ProductsByCategory).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch stats"})
			return
		}

		_ = utils.SetCache(ctx, rdb, statsCacheKey, stats, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Dashboard stats fetched successfully", "data": stats})
	}
}

// PATCH /api/admin/users/:id/role
func UpdateUserRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid user id"})
			return
		}

		var input UpdateRoleInput
		if err := c.ShouldBindJSON(&input); err != nil ||
			(input.Role != models.RoleUser && input.Role != models.RoleAdmin) {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Role must be either 'user' or 'admin'"})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}

		if err := db.Model(&user).Update("role", input.Role).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to update user role"})
			return
		}

		logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": input.Role}).Info("User role updated")
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "User role updated successfully", "data": user})
	}
}

package userControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/middleware"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/utils"
)

type SignupInput struct {
	Name     string `form:"name" binding:"required,min=2"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	Address  string `form:"address" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Image   *string `json:"image"`
}

// POST /api/users
//
// Multipart signup with an optional profile image. Role is always "user";
// promotion happens through the admin role endpoint.
func CreateUser(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SignupInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "name, email, password and address are required"})
			return
		}

		var existing models.User
		if err := db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"status": false, "message": "User already exists"})
			return
		}

		imageURL, err := utils.SaveImage(c, "image", uploadDir, "users")
		if err != nil && !errors.Is(err, utils.ErrNoFile) {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": err.Error()})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to create user"})
			return
		}

		user := models.User{
			Name:     input.Name,
			Email:    input.Email,
			Password: string(hash),
			Address:  input.Address,
			Role:     models.RoleUser,
			Image:    imageURL,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"status": false, "message": "User already exists"})
			return
		}

		logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User created")
		c.JSON(http.StatusCreated, gin.H{"status": true, "message": "User created successfully", "data": user})
	}
}

// POST /api/users/login
//
// Both an unknown email and a wrong password return the same message so
// the response does not reveal which one was wrong.
func LoginUser(db *gorm.DB, secret string, expireHours int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Email and password are required"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Invalid email or password"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Invalid email or password"})
			return
		}

		token, err := utils.GenerateJWT(&user, secret, expireHours)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  true,
			"message": "Login successful",
			"data":    gin.H{"user": user, "token": token},
		})
	}
}

// GET /api/users  (admin)
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at desc").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Users fetched successfully", "data": users})
	}
}

// GET /api/users/:id
func GetUserByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid user id"})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "User fetched successfully", "data": user})
	}
}

// GET /api/users/byEmail?email=
func GetUserByEmail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Please provide email"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "User fetched successfully", "data": user})
	}
}

// PATCH /api/users/:id
//
// Profile edits are limited to the account owner unless the caller is an
// admin.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := middleware.CurrentUser(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid user id"})
			return
		}
		if uint(id) != current.ID && !current.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"status": false, "message": "You can only update your own profile"})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request body"})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Address != nil {
			updates["address"] = *input.Address
		}
		if input.Image != nil {
			updates["image"] = *input.Image
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to update user"})
				return
			}
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "updated_by": current.ID}).Info("User updated")
		}

		c.JSON(http.StatusOK, gin.H{"status": true, "message": "User updated successfully", "data": user})
	}
}

// DELETE /api/users/:id  (admin)
//
// Removing a user also removes their cart. Orders are kept for the books.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := middleware.CurrentUser(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid user id"})
			return
		}
		if uint(id) == current.ID {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "You cannot delete your own account"})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var cart models.Cart
			if err := tx.Where("user_id = ?", user.ID).First(&cart).Error; err == nil {
				if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&cart).Error; err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to delete user"})
			return
		}

		logrus.WithFields(logrus.Fields{"user_id": user.ID, "deleted_by": current.ID}).Info("User deleted")
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "User and associated cart deleted successfully"})
	}
}

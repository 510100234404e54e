package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/middleware"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
)

// Cart mutations are read-modify-write, so concurrent requests for the
// same user are serialized on a per-user mutex. Entries are never
// evicted; the map grows with the number of distinct users seen by this
// process, a few dozen bytes each.
var userLocks sync.Map

// LockUser returns the mutex serializing cart writes for one user. The
// order controller shares it so checkout cannot interleave with an add.
func LockUser(userID uint) *sync.Mutex {
	mu, _ := userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity"` // nil defaults to 1, zero and negatives are rejected
}

type AddToCartInput struct {
	Products []CartItemInput `json:"products" binding:"required,min=1,dive"`
}

type RemoveSelectedInput struct {
	ProductIDs []uint `json:"product_ids" binding:"required,min=1"`
}

// CartItemView pairs the stored quantity with the current catalog record.
type CartItemView struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// POST /api/cart
//
// Creates the cart lazily on first add. Lines for products already in the
// cart get their quantity incremented, new products get a fresh line.
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Please provide a list of products"})
			return
		}

		for i, p := range input.Products {
			if p.Quantity == nil {
				one := 1
				input.Products[i].Quantity = &one
			} else if *p.Quantity <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Quantity must be a positive integer"})
				return
			}
		}

		mu := LockUser(user.ID)
		mu.Lock()
		defer mu.Unlock()

		err := db.Transaction(func(tx *gorm.DB) error {
			var cart models.Cart
			if err := tx.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				cart = models.Cart{UserID: user.ID}
				if err := tx.Create(&cart).Error; err != nil {
					return err
				}
			}

			for _, p := range input.Products {
				var product models.Product
				if err := tx.First(&product, p.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return errProductMissing
					}
					return err
				}

				var item models.CartItem
				err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, p.ProductID).First(&item).Error
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					item = models.CartItem{
						CartID:    cart.CartID,
						ProductID: p.ProductID,
						Quantity:  *p.Quantity,
						AddedAt:   time.Now(),
					}
					if err := tx.Create(&item).Error; err != nil {
						return err
					}
				case err != nil:
					return err
				default:
					item.Quantity += *p.Quantity
					item.AddedAt = time.Now()
					if err := tx.Save(&item).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, errProductMissing) {
				c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Product does not exist"})
				return
			}
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to add to cart")
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to add to cart"})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Products added to cart", "data": cart})
	}
}

var errProductMissing = errors.New("product does not exist")

// DELETE /api/cart/items/:productId
//
// Decrements the line by exactly one and drops it when the quantity
// reaches zero.
func RemoveFromCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid product id"})
			return
		}

		mu := LockUser(user.ID)
		mu.Lock()
		defer mu.Unlock()

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Cart not found"})
			return
		}

		var item models.CartItem
		if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Product not found in cart"})
			return
		}

		item.Quantity--
		if item.Quantity <= 0 {
			if err := db.Delete(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to update cart"})
				return
			}
		} else {
			if err := db.Save(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to update cart"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Product removed from cart"})
	}
}

// DELETE /api/cart/items
//
// Drops every line whose product id is in the request. Ids not present in
// the cart are ignored.
func RemoveSelected(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var input RemoveSelectedInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Please provide an array of product ids"})
			return
		}

		mu := LockUser(user.ID)
		mu.Lock()
		defer mu.Unlock()

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Cart not found"})
			return
		}

		if err := db.Where("cart_id = ? AND product_id IN ?", cart.CartID, input.ProductIDs).
			Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to update cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Selected products removed from cart"})
	}
}

// DELETE /api/cart
//
// Deletes the cart row itself, unlike checkout which only empties it.
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		mu := LockUser(user.ID)
		mu.Lock()
		defer mu.Unlock()

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Cart not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&cart).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to clear cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Cart cleared"})
	}
}

// GET /api/cart
//
// Resolves each line against the current catalog, so prices and names
// reflect the catalog as of now rather than when the item was added.
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Cart not found"})
			return
		}

		views, err := resolveItems(db, cart.Items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  true,
			"message": "Cart fetched successfully",
			"data":    gin.H{"cart_id": cart.CartID, "user_id": cart.UserID, "items": views},
		})
	}
}

// GET /api/admin/user-cart/:user_id
func GetUserCartByAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid user id"})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Cart not found"})
			return
		}

		views, err := resolveItems(db, cart.Items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  true,
			"message": "Cart fetched successfully",
			"data":    gin.H{"cart_id": cart.CartID, "user_id": cart.UserID, "items": views},
		})
	}
}

// resolveItems joins cart lines with the product catalog. Lines whose
// product has been removed from the catalog are skipped.
func resolveItems(db *gorm.DB, items []models.CartItem) ([]CartItemView, error) {
	views := make([]CartItemView, 0, len(items))
	for _, item := range items {
		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, CartItemView{Product: product, Quantity: item.Quantity})
	}
	return views, nil
}

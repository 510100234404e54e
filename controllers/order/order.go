package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	cartControllers "github.com/KNagaSaiSatyaTeja/ecommerce-api/controllers/cart"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/middleware"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
)

type CreateOrderRequest struct {
	PaymentMethod   string `json:"payment_method" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var errCartEmpty = errors.New("cart is empty")

// mapOrderStatus validates a client-supplied status string.
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch models.OrderStatus(strings.ToLower(status)) {
	case models.OrderStatusPending:
		return models.OrderStatusPending, nil
	case models.OrderStatusProcessing:
		return models.OrderStatusProcessing, nil
	case models.OrderStatusShipped:
		return models.OrderStatusShipped, nil
	case models.OrderStatusDelivered:
		return models.OrderStatusDelivered, nil
	case models.OrderStatusCancelled:
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

var statusRank = map[models.OrderStatus]int{
	models.OrderStatusPending:    0,
	models.OrderStatusProcessing: 1,
	models.OrderStatusShipped:    2,
	models.OrderStatusDelivered:  3,
}

// validTransition enforces the forward-only progression
// pending -> processing -> shipped -> delivered, with cancellation
// allowed from any non-terminal state.
func validTransition(from, to models.OrderStatus) bool {
	if from == models.OrderStatusDelivered || from == models.OrderStatusCancelled {
		return false
	}
	if to == models.OrderStatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}

// generateOrderNumber builds a human-readable yet collision-free order
// number: fixed prefix, millisecond timestamp, uuid suffix.
func generateOrderNumber() string {
	return "ORD-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()
}

// createOrderFromCart snapshots the cart into an immutable order and
// empties the cart, both inside one transaction so a failure cannot leave
// a recorded order next to an unconsumed cart.
func createOrderFromCart(db *gorm.DB, user *models.User, req CreateOrderRequest) (*models.Order, error) {
	mu := cartControllers.LockUser(user.ID)
	mu.Lock()
	defer mu.Unlock()

	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCartEmpty
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, errCartEmpty
	}

	var total float64
	var orderItems []models.OrderItem
	for _, item := range cart.Items {
		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			return nil, err
		}
		total += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			ProductImage: product.Image,
			Quantity:     item.Quantity,
		})
	}

	order := models.Order{
		OrderNumber:     generateOrderNumber(),
		UserID:          user.ID,
		Items:           orderItems,
		TotalAmount:     total,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPaid, // simulated payment always succeeds
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		// Empty the cart but keep the row, unlike an explicit clear.
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /api/orders
func CreateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "payment_method and shipping_address are required"})
			return
		}

		order, err := createOrderFromCart(db, user, req)
		if err != nil {
			if errors.Is(err, errCartEmpty) {
				c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Cart is empty"})
				return
			}
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Checkout failed")
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to create order"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"user_id":      user.ID,
			"order_number": order.OrderNumber,
			"total":        order.TotalAmount,
			"items":        len(order.Items),
		}).Info("Order created")
		broadcastOrderEvent("order_created", *order)

		c.JSON(http.StatusCreated, gin.H{"status": true, "message": "Order created successfully", "data": order})
	}
}

// GET /api/orders/my-orders
func GetMyOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var orders []models.Order
		if err := db.Preload("Items").
			Where("user_id = ?", user.ID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Orders fetched successfully", "data": orders})
	}
}

// GET /api/orders/:id  (owner or admin)
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid order id"})
			return
		}

		query := db.Preload("Items").Where("id = ?", orderID)
		if !user.IsAdmin() {
			query = query.Where("user_id = ?", user.ID)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Order fetched successfully", "data": order})
	}
}

// GET /api/orders  (admin)
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Orders fetched successfully", "data": orders})
	}
}

// PATCH /api/orders/:id/status  (admin)
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid order id"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "status is required"})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid order status"})
			return
		}

		var order models.Order
		if err := db.First(&order, orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Order not found"})
			return
		}
		prev := order.Status
		if !validTransition(prev, newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Cannot move order from " + string(prev) + " to " + string(newStatus)})
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to update order status"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,
			"from":     prev,
			"to":       newStatus,
		}).Info("Order status updated")
		order.Status = newStatus
		broadcastOrderEvent("order_status_updated", order)

		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Order status updated successfully", "data": order})
	}
}

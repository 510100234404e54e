package orderControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/middleware"
)

// paymentDelay mimics a real gateway round trip. Tests shorten it.
var paymentDelay = 2 * time.Second

type PaymentRequest struct {
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod  string  `json:"payment_method" binding:"required"`
	CardNumber     string  `json:"card_number"`
	ExpiryDate     string  `json:"expiry_date"`
	CVV            string  `json:"cvv"`
	CardholderName string  `json:"cardholder_name"`
}

// POST /api/orders/pay
//
// Simulated payment: no gateway is called. Card fields get only a length
// check and every request that passes it succeeds.
func ProcessPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "amount and payment_method are required"})
			return
		}

		time.Sleep(paymentDelay)

		if req.CardNumber != "" && len(req.CardNumber) < 16 {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid card number"})
			return
		}
		if req.CVV != "" && len(req.CVV) < 3 {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid CVV"})
			return
		}

		txnID := "TXN-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
		logrus.WithFields(logrus.Fields{
			"user_id":        user.ID,
			"transaction_id": txnID,
			"amount":         req.Amount,
			"method":         req.PaymentMethod,
		}).Info("Payment processed")

		c.JSON(http.StatusOK, gin.H{
			"status":  true,
			"message": "Payment processed successfully",
			"data": gin.H{
				"transaction_id": txnID,
				"amount":         req.Amount,
				"payment_method": req.PaymentMethod,
				"payment_status": "success",
				"timestamp":      time.Now().Format(time.RFC3339),
			},
		})
	}
}

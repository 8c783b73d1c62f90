package httpserver

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"brassmart/internal/checkout"
	"brassmart/internal/domain"
	"brassmart/internal/validate"
)

// CheckoutService is the slice of the checkout service the handlers use.
type CheckoutService interface {
	CreateOrder(ctx context.Context, in checkout.CreateOrderInput) (*domain.GatewayOrder, error)
	VerifyPayment(ctx context.Context, in checkout.VerifyInput) (*domain.Order, error)
}

type createOrderRequest struct {
	Amount   int64  `json:"amount" binding:"required"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// createPaymentOrderHandler creates a gateway order. Retries carrying the
// same Idempotency-Key header replay the first result.
func createPaymentOrderHandler(svc CheckoutService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Amount is required")
			return
		}
		order, err := svc.CreateOrder(c.Request.Context(), checkout.CreateOrderInput{
			Amount:         req.Amount,
			Currency:       req.Currency,
			Receipt:        req.Receipt,
			IdempotencyKey: c.GetHeader("Idempotency-Key"),
		})
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"order": order})
	}
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string            `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string            `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string            `json:"razorpay_signature" binding:"required"`
	Order             domain.OrderInput `json:"order"`
}

func verifyPaymentHandler(svc CheckoutService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Payment proof is required")
			return
		}
		if !validate.Email(req.Order.Customer.Email) {
			fail(c, http.StatusBadRequest, "A valid email is required")
			return
		}
		if err := checkout.ValidateAddress(req.Order.ShippingAddress); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		order, err := svc.VerifyPayment(c.Request.Context(), checkout.VerifyInput{
			Proof: domain.PaymentProof{
				OrderID:   req.RazorpayOrderID,
				PaymentID: req.RazorpayPaymentID,
				Signature: req.RazorpaySignature,
			},
			Order: req.Order,
		})
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"message": "Payment verified", "order": order})
	}
}

// Package checkout orchestrates payment collection: creating gateway orders,
// verifying completed payments, and recording the resulting order with the
// identity backend.
package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"brassmart/internal/domain"
	"brassmart/internal/razorpay"
	"brassmart/internal/repository/idempotency"
	"brassmart/internal/validate"
)

var (
	// ErrBadSignature means the payment proof failed signature verification.
	ErrBadSignature = errors.New("payment signature verification failed")
	// ErrNotCaptured means the gateway has not captured the payment.
	ErrNotCaptured = errors.New("payment not captured")
	// ErrBadAmount rejects non-positive order amounts.
	ErrBadAmount = errors.New("amount must be positive")
)

// gateway is the slice of the payment gateway the service uses.
type gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.GatewayOrder, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.GatewayPayment, error)
	VerifySignature(proof domain.PaymentProof) bool
}

// orderWriter records settled orders with the identity backend.
type orderWriter interface {
	CreateOrder(ctx context.Context, in domain.OrderInput) (*domain.Order, error)
}

// keyStore reserves idempotency keys and replays stored responses.
type keyStore interface {
	Get(ctx context.Context, key string) (*idempotency.Record, error)
	Put(ctx context.Context, rec idempotency.Record) error
}

// Service drives the two-step checkout: create a gateway order, then verify
// the payment proof and record the order.
type Service struct {
	gateway gateway
	orders  orderWriter
	keys    keyStore
	logger  *log.Logger
	now     func() time.Time
}

func NewService(gw gateway, orders orderWriter, keys keyStore, logger *log.Logger) *Service {
	return &Service{
		gateway: gw,
		orders:  orders,
		keys:    keys,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateOrderInput asks for a gateway order. Amount is in minor units.
// IdempotencyKey, when set, makes retries replay the first result.
type CreateOrderInput struct {
	Amount         int64
	Currency       string
	Receipt        string
	IdempotencyKey string
}

func (in CreateOrderInput) fingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s", in.Amount, in.Currency, in.Receipt)))
	return hex.EncodeToString(sum[:])
}

// CreateOrder creates a payment order at the gateway. When the input carries
// an idempotency key, a retry with the same key and the same request returns
// the originally created order; the same key with a different request is
// rejected with domain.ErrConflict.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.GatewayOrder, error) {
	if in.Amount <= 0 {
		return nil, ErrBadAmount
	}
	if in.Currency == "" {
		in.Currency = "INR"
	}

	if in.IdempotencyKey != "" {
		rec, err := s.keys.Get(ctx, in.IdempotencyKey)
		if err == nil {
			if rec.Fingerprint != in.fingerprint() {
				return nil, domain.ErrConflict
			}
			var order domain.GatewayOrder
			if err := json.Unmarshal(rec.Response, &order); err != nil {
				return nil, fmt.Errorf("decode stored order: %w", err)
			}
			s.logger.Printf("replayed gateway order %s for key %s", order.ID, in.IdempotencyKey)
			return &order, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	order, err := s.gateway.CreateOrder(ctx, in.Amount, in.Currency, in.Receipt)
	if err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		raw, err := json.Marshal(order)
		if err != nil {
			return nil, err
		}
		err = s.keys.Put(ctx, idempotency.Record{
			Key:         in.IdempotencyKey,
			Fingerprint: in.fingerprint(),
			Response:    raw,
			CreatedAt:   s.now(),
		})
		if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
			s.logger.Printf("store idempotency key %s: %v", in.IdempotencyKey, err)
		}
	}
	return order, nil
}

// VerifyInput carries the gateway's payment proof and the order to record
// once the payment checks out.
type VerifyInput struct {
	Proof domain.PaymentProof
	Order domain.OrderInput
}

// VerifyPayment validates the proof signature, confirms the gateway captured
// the payment, and only then records the order as paid. The recorded total
// and transaction come from the fetched payment, not the request body, so a
// caller cannot record a total that disagrees with what was captured. Any
// failure leaves no order behind.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyInput) (*domain.Order, error) {
	if !s.gateway.VerifySignature(in.Proof) {
		return nil, ErrBadSignature
	}
	payment, err := s.gateway.GetPayment(ctx, in.Proof.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != razorpay.StatusCaptured {
		return nil, fmt.Errorf("%w: status %q", ErrNotCaptured, payment.Status)
	}

	amount := minorUnitsString(payment.Amount)
	currency := strings.ToUpper(payment.Currency)

	in.Order.TotalPrice = amount
	in.Order.Currency = currency
	in.Order.FinancialStatus = "paid"
	in.Order.PaymentGatewayNames = []string{"razorpay"}
	in.Order.Transactions = []domain.OrderTransaction{{
		Kind:       "sale",
		Status:     "success",
		Amount:     amount,
		Currency:   currency,
		Gateway:    "razorpay",
		SourceName: "web",
	}}

	order, err := s.orders.CreateOrder(ctx, in.Order)
	if err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}
	s.logger.Printf("payment %s captured, order %s recorded", payment.ID, order.ID)
	return order, nil
}

// minorUnitsString renders a minor-unit amount as the backend's decimal
// string form, e.g. 250000 paise -> "2500.00".
func minorUnitsString(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}

// ValidateAddress checks the fields an order address must carry before
// checkout is allowed to proceed.
func ValidateAddress(addr domain.Address) error {
	switch {
	case addr.FirstName == "":
		return errors.New("first name is required")
	case addr.LastName == "":
		return errors.New("last name is required")
	case addr.Address1 == "":
		return errors.New("address line is required")
	case addr.City == "":
		return errors.New("city is required")
	case addr.Province == "":
		return errors.New("state is required")
	case !validate.Pincode(addr.Zip):
		return errors.New("invalid pincode")
	case !validate.Phone(addr.Phone):
		return errors.New("invalid phone number")
	}
	return nil
}

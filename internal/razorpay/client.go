// Package razorpay is a minimal client for the payment gateway: order
// creation, payment retrieval, and the shared-secret signature check that
// binds a completed payment to its order.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"brassmart/internal/domain"
)

// DefaultBaseURL is the production gateway endpoint.
const DefaultBaseURL = "https://api.razorpay.com/v1"

// StatusCaptured is the payment status required before an order is created.
const StatusCaptured = "captured"

// Client talks to the gateway's REST API with basic auth.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// New builds a Client. An empty baseURL selects the production endpoint.
func New(keyID, keySecret, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: httpClient,
	}
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

// CreateOrder registers an amount (minor units) for collection and returns
// the gateway order to hand to the client-side widget.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.GatewayOrder, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if currency == "" {
		currency = "INR"
	}
	body, err := json.Marshal(createOrderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, err
	}

	var order domain.GatewayOrder
	if err := c.do(ctx, http.MethodPost, "/orders", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetPayment fetches a payment record by id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*domain.GatewayPayment, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("payment id required")
	}
	var payment domain.GatewayPayment
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// VerifySignature checks the widget-supplied signature: HMAC-SHA256 over
// "orderID|paymentID" with the key secret, hex encoded, compared in constant
// time.
func (c *Client) VerifySignature(proof domain.PaymentProof) bool {
	return VerifySignature(c.keySecret, proof)
}

// VerifySignature is the package-level form used where no client exists.
func VerifySignature(secret string, proof domain.PaymentProof) bool {
	if proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(proof.OrderID + "|" + proof.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(proof.Signature))
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

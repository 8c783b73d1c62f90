package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brassmart/internal/domain"
)

// Signature computed with HMAC-SHA256(key="test_key_secret",
// msg="order_MkWvCTBKnYfhVJ|pay_MkX0EXnV4DYOVu").
const (
	testSecret    = "test_key_secret"
	testOrderID   = "order_MkWvCTBKnYfhVJ"
	testPaymentID = "pay_MkX0EXnV4DYOVu"
	testSignature = "5ac9ad6e4cc2dcf5f49c350fb6dfd47fdf4673a7bffe41f55a9be15d6b8074d0"
)

func TestVerifySignatureMatchesKnownVector(t *testing.T) {
	proof := domain.PaymentProof{
		OrderID:   testOrderID,
		PaymentID: testPaymentID,
		Signature: testSignature,
	}
	if !VerifySignature(testSecret, proof) {
		t.Fatal("expected known vector to verify")
	}
}

func TestVerifySignatureRejectsMutations(t *testing.T) {
	// Flip each character of the signature in turn; every mutation must fail.
	for i := 0; i < len(testSignature); i++ {
		mutated := []byte(testSignature)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		proof := domain.PaymentProof{
			OrderID:   testOrderID,
			PaymentID: testPaymentID,
			Signature: string(mutated),
		}
		if VerifySignature(testSecret, proof) {
			t.Fatalf("mutation at index %d verified unexpectedly", i)
		}
	}
}

func TestVerifySignatureRejectsEmptyFields(t *testing.T) {
	if VerifySignature(testSecret, domain.PaymentProof{}) {
		t.Fatal("empty proof verified")
	}
	if VerifySignature(testSecret, domain.PaymentProof{OrderID: testOrderID, PaymentID: testPaymentID}) {
		t.Fatal("proof without signature verified")
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != testSecret {
			t.Fatalf("missing or wrong basic auth")
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req["amount"].(float64) != 250000 || req["payment_capture"].(float64) != 1 {
			t.Fatalf("unexpected body %v", req)
		}
		json.NewEncoder(w).Encode(domain.GatewayOrder{
			ID:       "order_abc",
			Entity:   "order",
			Amount:   250000,
			Currency: "INR",
			Receipt:  req["receipt"].(string),
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := New("key_id", testSecret, srv.URL, srv.Client())
	order, err := client.CreateOrder(context.Background(), 250000, "INR", "rcpt_1")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "order_abc" || order.Receipt != "rcpt_1" {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := New("key_id", testSecret, "http://unused", nil)
	if _, err := client.CreateOrder(context.Background(), 0, "INR", "r"); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if _, err := client.CreateOrder(context.Background(), -100, "INR", "r"); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"description":"auth failed"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New("key_id", "wrong", srv.URL, srv.Client())
	if _, err := client.CreateOrder(context.Background(), 100, "INR", "r"); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/pay_123" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(domain.GatewayPayment{
			ID:       "pay_123",
			OrderID:  "order_abc",
			Amount:   250000,
			Currency: "INR",
			Status:   StatusCaptured,
		})
	}))
	defer srv.Close()

	client := New("key_id", testSecret, srv.URL, srv.Client())
	payment, err := client.GetPayment(context.Background(), "pay_123")
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if payment.Status != StatusCaptured || payment.Amount != 250000 {
		t.Fatalf("unexpected payment %+v", payment)
	}
}

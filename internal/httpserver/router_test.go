package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"brassmart/internal/auth"
	"brassmart/internal/cart"
	"brassmart/internal/catalog"
	"brassmart/internal/checkout"
	"brassmart/internal/domain"
	"brassmart/internal/pincode"
	"brassmart/internal/store"
)

type stubAuth struct {
	sendOTPResult *auth.SendOTPResult
	sendOTPErr    error
	customer      *domain.Customer
	token         string
	verifyErr     error
	message       string
	orders        []domain.Order
}

func (s *stubAuth) SendOTP(_ context.Context, _ string) (*auth.SendOTPResult, error) {
	return s.sendOTPResult, s.sendOTPErr
}

func (s *stubAuth) VerifyOTP(_ context.Context, _, _ string) (*domain.Customer, string, error) {
	if s.verifyErr != nil {
		return nil, "", s.verifyErr
	}
	return s.customer, s.token, nil
}

func (s *stubAuth) SendVerification(_ context.Context, _, _, _ string) (string, error) {
	return s.message, nil
}

func (s *stubAuth) VerifyEmail(_ context.Context, _ string) (*domain.Customer, error) {
	return s.customer, nil
}

func (s *stubAuth) CompleteRegistration(_ context.Context, _ auth.CompleteRegistrationInput) (*domain.Customer, error) {
	return s.customer, nil
}

func (s *stubAuth) Profile(_ context.Context, _ string) (*domain.Customer, error) {
	return s.customer, nil
}

func (s *stubAuth) UpdateProfile(_ context.Context, _ string, _ auth.UpdateProfileInput) (*domain.Customer, error) {
	return s.customer, nil
}

func (s *stubAuth) Orders(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, nil
}

type stubCheckout struct {
	order     *domain.GatewayOrder
	createErr error
	recorded  *domain.Order
	verifyErr error
}

func (s *stubCheckout) CreateOrder(_ context.Context, _ checkout.CreateOrderInput) (*domain.GatewayOrder, error) {
	return s.order, s.createErr
}

func (s *stubCheckout) VerifyPayment(_ context.Context, _ checkout.VerifyInput) (*domain.Order, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return s.recorded, nil
}

type stubCatalog struct {
	products    []domain.Product
	collections []domain.Collection
	err         error
}

func (s *stubCatalog) Products(_ context.Context, _ catalog.ListInput) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) ProductByHandle(_ context.Context, handle string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].Handle == handle {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) Collections(_ context.Context) ([]domain.Collection, error) {
	return s.collections, s.err
}

type stubPincode struct {
	result pincode.Result
}

func (s *stubPincode) Lookup(_ context.Context, _ string) pincode.Result {
	return s.result
}

func testDeps() (Deps, *auth.TokenManager) {
	gin.SetMode(gin.TestMode)
	logger := log.New(io.Discard, "", 0)
	tokens := auth.NewTokenManager("router-test-secret")
	return Deps{
		Auth:     &stubAuth{},
		Tokens:   tokens,
		Checkout: &stubCheckout{},
		Catalog:  &stubCatalog{},
		Pincode:  &stubPincode{},
		Carts:    cart.NewManager(store.NewMemory(), logger),
	}, tokens
}

func testRouter(deps Deps) *gin.Engine {
	return buildRouter(log.New(io.Discard, "", 0), nil, deps)
}

func doJSON(router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	deps, _ := testDeps()
	rec := doJSON(testRouter(deps), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSendOTP(t *testing.T) {
	deps, _ := testDeps()
	deps.Auth = &stubAuth{sendOTPResult: &auth.SendOTPResult{Message: "OTP sent to your email"}}
	rec := doJSON(testRouter(deps), http.MethodPost, "/api/auth/send-otp", `{"email": "a@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Message != "OTP sent to your email" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestSendOTPRequiresEmail(t *testing.T) {
	deps, _ := testDeps()
	rec := doJSON(testRouter(deps), http.MethodPost, "/api/auth/send-otp", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVerifyOTPSetsSessionCookie(t *testing.T) {
	deps, tokens := testDeps()
	token, err := tokens.Issue("c1", "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	deps.Auth = &stubAuth{customer: &domain.Customer{ID: "c1", Email: "a@example.com"}, token: token}

	rec := doJSON(testRouter(deps), http.MethodPost, "/api/auth/verify-otp", `{"email": "a@example.com", "otp": "123456"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == customerCookie && ck.Value == token && ck.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Fatal("customer_token cookie not set")
	}
}

func TestVerifyOTPInvalidCode(t *testing.T) {
	deps, _ := testDeps()
	deps.Auth = &stubAuth{verifyErr: auth.ErrOTPInvalid}
	rec := doJSON(testRouter(deps), http.MethodPost, "/api/auth/verify-otp", `{"email": "a@example.com", "otp": "000000"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCustomerRoutesRequireAuth(t *testing.T) {
	deps, tokens := testDeps()
	deps.Auth = &stubAuth{customer: &domain.Customer{ID: "c1", Email: "a@example.com"}}
	router := testRouter(deps)

	rec := doJSON(router, http.MethodGet, "/api/customer/profile", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: status = %d", rec.Code)
	}

	rec = doJSON(router, http.MethodGet, "/api/customer/profile", "", &http.Cookie{Name: customerCookie, Value: "garbage"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad cookie: status = %d", rec.Code)
	}
	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == customerCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("invalid cookie not cleared")
	}

	token, err := tokens.Issue("c1", "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rec = doJSON(router, http.MethodGet, "/api/customer/profile", "", &http.Cookie{Name: customerCookie, Value: token})
	if rec.Code != http.StatusOK {
		t.Fatalf("valid cookie: status = %d: %s", rec.Code, rec.Body)
	}
}

func TestPaymentRoutesRequireAuth(t *testing.T) {
	deps, _ := testDeps()
	rec := doJSON(testRouter(deps), http.MethodPost, "/api/payment/create-order", `{"amount": 1000}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPaymentVerifyBadSignature(t *testing.T) {
	deps, tokens := testDeps()
	deps.Checkout = &stubCheckout{verifyErr: checkout.ErrBadSignature}
	token, _ := tokens.Issue("c1", "a@example.com")

	body := `{
		"razorpay_order_id": "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature": "bad",
		"order": {
			"customer": {"email": "a@example.com", "first_name": "A", "last_name": "B"},
			"shipping_address": {"first_name": "A", "last_name": "B", "address1": "12 Brass Lane", "city": "Jagraon", "province": "Punjab", "country": "India", "zip": "148307", "phone": "9876543210"},
			"total_price": "2500.00",
			"currency": "INR"
		}
	}`
	rec := doJSON(testRouter(deps), http.MethodPost, "/api/payment/verify", body, &http.Cookie{Name: customerCookie, Value: token})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "verification failed") {
		t.Fatalf("body = %s, want signature failure message", rec.Body)
	}
}

func TestPaymentVerifyRejectsBadAddress(t *testing.T) {
	deps, tokens := testDeps()
	token, _ := tokens.Issue("c1", "a@example.com")
	router := testRouter(deps)
	cookie := &http.Cookie{Name: customerCookie, Value: token}

	cases := map[string]string{
		"bad pincode": `{
			"razorpay_order_id": "order_1", "razorpay_payment_id": "pay_1", "razorpay_signature": "sig",
			"order": {
				"customer": {"email": "a@example.com"},
				"shipping_address": {"first_name": "A", "last_name": "B", "address1": "12 Brass Lane", "city": "Jagraon", "province": "Punjab", "zip": "048307", "phone": "9876543210"}
			}
		}`,
		"missing phone": `{
			"razorpay_order_id": "order_1", "razorpay_payment_id": "pay_1", "razorpay_signature": "sig",
			"order": {
				"customer": {"email": "a@example.com"},
				"shipping_address": {"first_name": "A", "last_name": "B", "address1": "12 Brass Lane", "city": "Jagraon", "province": "Punjab", "zip": "148307"}
			}
		}`,
		"missing name": `{
			"razorpay_order_id": "order_1", "razorpay_payment_id": "pay_1", "razorpay_signature": "sig",
			"order": {
				"customer": {"email": "a@example.com"},
				"shipping_address": {"address1": "12 Brass Lane", "city": "Jagraon", "province": "Punjab", "zip": "148307", "phone": "9876543210"}
			}
		}`,
		"missing email": `{
			"razorpay_order_id": "order_1", "razorpay_payment_id": "pay_1", "razorpay_signature": "sig",
			"order": {
				"shipping_address": {"first_name": "A", "last_name": "B", "address1": "12 Brass Lane", "city": "Jagraon", "province": "Punjab", "zip": "148307", "phone": "9876543210"}
			}
		}`,
	}
	for name, body := range cases {
		rec := doJSON(router, http.MethodPost, "/api/payment/verify", body, cookie)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d: %s", name, rec.Code, rec.Body)
		}
	}
}

func TestCartFlow(t *testing.T) {
	deps, _ := testDeps()
	router := testRouter(deps)

	rec := doJSON(router, http.MethodGet, "/api/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get cart: status = %d", rec.Code)
	}
	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			session = ck
		}
	}
	if session == nil {
		t.Fatal("session cookie not assigned")
	}

	add := `{"variantId": "v1", "quantity": 2, "product": {"productId": "p1", "title": "Brass Kadai", "price": "₹1,200", "handle": "brass-kadai"}}`
	rec = doJSON(router, http.MethodPost, "/api/cart", add, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		TotalItems int    `json:"totalItems"`
		TotalPrice string `json:"totalPrice"`
		Items      []struct {
			VariantID string `json:"variantId"`
			Image     string `json:"image"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalItems != 2 || resp.TotalPrice != "₹2,400" {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Items[0].Image != domain.PlaceholderImage {
		t.Fatalf("image = %q, want placeholder", resp.Items[0].Image)
	}

	rec = doJSON(router, http.MethodDelete, "/api/cart/v1", "", session)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalItems != 0 {
		t.Fatalf("after remove totalItems = %d", resp.TotalItems)
	}
}

func TestCartAddWithoutPriceDefaultsToZero(t *testing.T) {
	deps, _ := testDeps()
	router := testRouter(deps)
	session := &http.Cookie{Name: sessionCookie, Value: "priceless-session"}

	add := `{"variantId": "v1", "quantity": 1, "product": {"productId": "p1", "title": "Brass Diya"}}`
	rec := doJSON(router, http.MethodPost, "/api/cart", add, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		TotalItems int    `json:"totalItems"`
		TotalPrice string `json:"totalPrice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalItems != 1 || resp.TotalPrice != "₹0" {
		t.Fatalf("resp = %+v, want one free item", resp)
	}

	rec = doJSON(router, http.MethodPost, "/api/cart", `{"variantId": "v2", "product": {"productId": "p2", "price": "not a price"}}`, session)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed price: status = %d", rec.Code)
	}
}

func TestWishlistMoveToCart(t *testing.T) {
	deps, _ := testDeps()
	router := testRouter(deps)
	session := &http.Cookie{Name: sessionCookie, Value: "fixed-session"}

	add := `{"variantId": "v1", "product": {"productId": "p1", "title": "Brass Diya", "price": "₹500"}}`
	rec := doJSON(router, http.MethodPost, "/api/wishlist", add, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("add wishlist: status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(router, http.MethodPost, "/api/wishlist/p1/move-to-cart", "", session)
	if rec.Code != http.StatusOK {
		t.Fatalf("move: status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		TotalItems int                    `json:"totalItems"`
		Wishlist   []domain.WishlistEntry `json:"wishlist"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalItems != 1 || len(resp.Wishlist) != 0 {
		t.Fatalf("resp = %+v", resp)
	}

	rec = doJSON(router, http.MethodPost, "/api/wishlist/absent/move-to-cart", "", session)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing product: status = %d", rec.Code)
	}
}

func TestProductByHandleNotFound(t *testing.T) {
	deps, _ := testDeps()
	rec := doJSON(testRouter(deps), http.MethodGet, "/api/products/no-such", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPincodeHandler(t *testing.T) {
	deps, _ := testDeps()
	deps.Pincode = &stubPincode{result: pincode.Result{
		Success: true,
		Data:    &pincode.Location{Pincode: "148307", City: "Amargarh", State: "Punjab", Country: "India"},
	}}
	router := testRouter(deps)

	rec := doJSON(router, http.MethodGet, "/api/pincode?pincode=148307", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(router, http.MethodGet, "/api/pincode?pincode=048307", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format: status = %d", rec.Code)
	}
}

func TestUnknownServiceErrorIsOpaque500(t *testing.T) {
	deps, _ := testDeps()
	deps.Auth = &stubAuth{sendOTPErr: errors.New("identity backend exploded")}
	rec := doJSON(testRouter(deps), http.MethodPost, "/api/auth/send-otp", `{"email": "a@example.com"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "exploded") {
		t.Fatalf("internal detail leaked: %s", rec.Body)
	}
}

package domain

import "time"

// OrderCustomer identifies the buyer on a remote order.
type OrderCustomer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

// OrderLineItem is one purchased variant on a remote order.
type OrderLineItem struct {
	VariantID string `json:"variant_id"`
	Title     string `json:"title,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// OrderTransaction records the payment that settled an order.
type OrderTransaction struct {
	Kind       string `json:"kind"`
	Status     string `json:"status"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Gateway    string `json:"gateway"`
	SourceName string `json:"source_name"`
}

// OrderInput is the payload sent to the identity backend to create an order
// after a verified payment.
type OrderInput struct {
	Customer            OrderCustomer      `json:"customer"`
	LineItems           []OrderLineItem    `json:"line_items"`
	ShippingAddress     Address            `json:"shipping_address"`
	BillingAddress      Address            `json:"billing_address"`
	TotalPrice          string             `json:"total_price"`
	Currency            string             `json:"currency"`
	FinancialStatus     string             `json:"financial_status"`
	PaymentGatewayNames []string           `json:"payment_gateway_names"`
	Transactions        []OrderTransaction `json:"transactions"`
}

// Order is a remote order record as returned by the identity backend.
type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"order_number"`
	CreatedAt         time.Time       `json:"created_at"`
	TotalPrice        string          `json:"total_price"`
	SubtotalPrice     string          `json:"subtotal_price,omitempty"`
	Currency          string          `json:"currency"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus string          `json:"fulfillment_status,omitempty"`
	LineItems         []OrderLineItem `json:"line_items"`
	ShippingAddress   *Address        `json:"shipping_address,omitempty"`
	BillingAddress    *Address        `json:"billing_address,omitempty"`
}

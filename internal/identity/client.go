// Package identity is the admin-privileged client for the external identity
// backend: customer CRUD, tag mutation, addresses, and order records. It is
// only ever called from server-side handlers, never exposed to browsers.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"brassmart/internal/domain"
)

// Client calls the backend's REST admin API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// New builds a Client for the given admin API base URL.
func New(baseURL, accessToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

type customerEnvelope struct {
	Customer *domain.Customer `json:"customer"`
}

type customersEnvelope struct {
	Customers []domain.Customer `json:"customers"`
}

type ordersEnvelope struct {
	Orders []domain.Order `json:"orders"`
}

type orderEnvelope struct {
	Order *domain.Order `json:"order"`
}

type addressEnvelope struct {
	Address *domain.Address `json:"customer_address"`
}

// GetByEmail finds a customer by email address. Returns domain.ErrNotFound
// when no record matches.
func (c *Client) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	q := url.Values{"query": {"email:" + email}}
	var env customersEnvelope
	if err := c.do(ctx, http.MethodGet, "/customers/search.json?"+q.Encode(), nil, &env); err != nil {
		return nil, err
	}
	if len(env.Customers) == 0 {
		return nil, domain.ErrNotFound
	}
	return &env.Customers[0], nil
}

// GetByID fetches a customer record.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	var env customerEnvelope
	if err := c.do(ctx, http.MethodGet, "/customers/"+id+".json", nil, &env); err != nil {
		return nil, err
	}
	if env.Customer == nil {
		return nil, domain.ErrNotFound
	}
	return env.Customer, nil
}

// CreateInput is the payload for creating a remote customer.
type CreateInput struct {
	Email            string   `json:"email"`
	FirstName        string   `json:"first_name,omitempty"`
	LastName         string   `json:"last_name,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	VerifiedEmail    bool     `json:"verified_email"`
	AcceptsMarketing bool     `json:"accepts_marketing"`
	SendEmailInvite  bool     `json:"send_email_invite"`
}

// Create registers a new customer; the backend sends an account invitation
// when SendEmailInvite is set.
func (c *Client) Create(ctx context.Context, in CreateInput) (*domain.Customer, error) {
	body, err := json.Marshal(map[string]CreateInput{"customer": in})
	if err != nil {
		return nil, err
	}
	var env customerEnvelope
	if err := c.do(ctx, http.MethodPost, "/customers.json", body, &env); err != nil {
		return nil, err
	}
	if env.Customer == nil {
		return nil, fmt.Errorf("identity: empty create response")
	}
	return env.Customer, nil
}

// SendInvite re-sends the account invitation email for an existing customer.
func (c *Client) SendInvite(ctx context.Context, customerID string) error {
	return c.do(ctx, http.MethodPost, "/customers/"+customerID+"/send_invite.json", []byte(`{}`), nil)
}

// UpdateInput carries a partial customer update. Nil fields are left alone.
type UpdateInput struct {
	FirstName        *string   `json:"first_name,omitempty"`
	LastName         *string   `json:"last_name,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	AcceptsMarketing *bool     `json:"accepts_marketing,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
}

// Update applies a partial update and returns the updated record.
func (c *Client) Update(ctx context.Context, customerID string, in UpdateInput) (*domain.Customer, error) {
	body, err := json.Marshal(map[string]UpdateInput{"customer": in})
	if err != nil {
		return nil, err
	}
	var env customerEnvelope
	if err := c.do(ctx, http.MethodPut, "/customers/"+customerID+".json", body, &env); err != nil {
		return nil, err
	}
	if env.Customer == nil {
		return nil, fmt.Errorf("identity: empty update response")
	}
	return env.Customer, nil
}

// UpdateTags replaces the customer's tag set, but only if the remote set
// still equals expected. The backend offers no compare-and-swap, so this is
// a re-read-and-compare: concurrent writers can still race in the window
// between the read and the write, but stale local state is always rejected.
func (c *Client) UpdateTags(ctx context.Context, customerID string, expected, tags []string) (*domain.Customer, error) {
	current, err := c.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !equalTagSets(current.Tags, expected) {
		return nil, domain.ErrConflict
	}
	return c.Update(ctx, customerID, UpdateInput{Tags: &tags})
}

// Orders lists the customer's orders, newest first.
func (c *Client) Orders(ctx context.Context, customerID string) ([]domain.Order, error) {
	var env ordersEnvelope
	if err := c.do(ctx, http.MethodGet, "/customers/"+customerID+"/orders.json?status=any&limit=50", nil, &env); err != nil {
		return nil, err
	}
	return env.Orders, nil
}

// CreateOrder records a paid order on the backend.
func (c *Client) CreateOrder(ctx context.Context, in domain.OrderInput) (*domain.Order, error) {
	payload := struct {
		Order orderPayload `json:"order"`
	}{Order: orderPayload{
		OrderInput:             in,
		SendReceipt:            true,
		SendFulfillmentReceipt: true,
	}}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var env orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/orders.json", body, &env); err != nil {
		return nil, err
	}
	if env.Order == nil {
		return nil, fmt.Errorf("identity: empty order response")
	}
	return env.Order, nil
}

type orderPayload struct {
	domain.OrderInput
	SendReceipt            bool `json:"send_receipt"`
	SendFulfillmentReceipt bool `json:"send_fulfillment_receipt"`
}

// CreateAddress attaches a new address to a customer.
func (c *Client) CreateAddress(ctx context.Context, customerID string, addr domain.Address) (*domain.Address, error) {
	body, err := json.Marshal(map[string]domain.Address{"address": addr})
	if err != nil {
		return nil, err
	}
	var env addressEnvelope
	if err := c.do(ctx, http.MethodPost, "/customers/"+customerID+"/addresses.json", body, &env); err != nil {
		return nil, err
	}
	if env.Address == nil {
		return nil, fmt.Errorf("identity: empty address response")
	}
	return env.Address, nil
}

// DeleteAddress removes an address from a customer.
func (c *Client) DeleteAddress(ctx context.Context, customerID, addressID string) error {
	return c.do(ctx, http.MethodDelete, "/customers/"+customerID+"/addresses/"+addressID+".json", nil, nil)
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
	req.Header.Set("X-Admin-Access-Token", c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, msg)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("identity %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func equalTagSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, t := range a {
		seen[t]++
	}
	for _, t := range b {
		if seen[t] == 0 {
			return false
		}
		seen[t]--
	}
	return true
}

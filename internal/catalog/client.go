// Package catalog proxies the product catalog of the commerce backend.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"brassmart/internal/domain"
)

// Client reads products and collections from the catalog API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client

	// enforceInventory controls whether backend stock levels gate
	// availability. When false every variant is reported purchasable,
	// which is how the shop runs day to day: stock is managed offline.
	enforceInventory bool
}

func New(baseURL, accessToken string, enforceInventory bool, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:          baseURL,
		accessToken:      accessToken,
		httpClient:       httpClient,
		enforceInventory: enforceInventory,
	}
}

type productsEnvelope struct {
	Products []domain.Product `json:"products"`
}

type collectionsEnvelope struct {
	Collections []domain.Collection `json:"custom_collections"`
}

// ListInput narrows a product listing.
type ListInput struct {
	Limit      int
	Page       int
	Collection string
}

// Products lists catalog products.
func (c *Client) Products(ctx context.Context, in ListInput) ([]domain.Product, error) {
	q := url.Values{}
	if in.Limit > 0 {
		q.Set("limit", strconv.Itoa(in.Limit))
	}
	if in.Page > 0 {
		q.Set("page", strconv.Itoa(in.Page))
	}
	if in.Collection != "" {
		q.Set("collection_id", in.Collection)
	}
	path := "/products.json"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var env productsEnvelope
	if err := c.get(ctx, path, &env); err != nil {
		return nil, err
	}
	for i := range env.Products {
		c.applyAvailability(&env.Products[i])
	}
	return env.Products, nil
}

// ProductByHandle fetches a single product by its URL handle.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	var env productsEnvelope
	if err := c.get(ctx, "/products.json?handle="+url.QueryEscape(handle), &env); err != nil {
		return nil, err
	}
	if len(env.Products) == 0 {
		return nil, domain.ErrNotFound
	}
	product := env.Products[0]
	c.applyAvailability(&product)
	return &product, nil
}

// Collections lists the shop's collections.
func (c *Client) Collections(ctx context.Context) ([]domain.Collection, error) {
	var env collectionsEnvelope
	if err := c.get(ctx, "/custom_collections.json", &env); err != nil {
		return nil, err
	}
	return env.Collections, nil
}

func (c *Client) applyAvailability(p *domain.Product) {
	if c.enforceInventory {
		return
	}
	for i := range p.Variants {
		p.Variants[i].Available = true
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Admin-Access-Token", c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("catalog: status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

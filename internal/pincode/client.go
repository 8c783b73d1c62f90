// Package pincode looks up Indian postal codes for address autofill.
package pincode

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"brassmart/internal/validate"
)

// DefaultBaseURL is the public postal lookup API.
const DefaultBaseURL = "https://api.postalpincode.in"

// Location is the resolved postal area for a pincode.
type Location struct {
	Pincode  string `json:"pincode"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	Country  string `json:"country"`
}

// Result is the outcome of a lookup. Lookups never fail hard: address
// autofill is a convenience, so network and parse problems surface as an
// unsuccessful result with a message, not an error.
type Result struct {
	Success bool      `json:"success"`
	Data    *Location `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Client queries the postal lookup API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

func New(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

type apiResponse []struct {
	Status     string `json:"Status"`
	PostOffice []struct {
		Name     string `json:"Name"`
		District string `json:"District"`
		State    string `json:"State"`
		Country  string `json:"Country"`
	} `json:"PostOffice"`
}

// Lookup resolves a pincode to its postal area.
func (c *Client) Lookup(ctx context.Context, pin string) Result {
	if !validate.Pincode(pin) {
		return Result{Message: "Invalid pincode format"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pincode/"+pin, nil)
	if err != nil {
		return Result{Message: "Pincode lookup failed"}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("pincode lookup %s: %v", pin, err)
		return Result{Message: "Pincode lookup failed"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("pincode lookup %s: status %d", pin, resp.StatusCode)
		return Result{Message: "Pincode lookup failed"}
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Printf("pincode lookup %s: %v", pin, err)
		return Result{Message: "Pincode lookup failed"}
	}
	if len(parsed) == 0 || parsed[0].Status != "Success" || len(parsed[0].PostOffice) == 0 {
		return Result{Message: "Pincode not found"}
	}

	po := parsed[0].PostOffice[0]
	return Result{
		Success: true,
		Data: &Location{
			Pincode:  pin,
			City:     po.Name,
			District: po.District,
			State:    po.State,
			Country:  po.Country,
		},
	}
}

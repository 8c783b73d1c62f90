package domain

import "time"

// Verification tags carried on the remote customer record. The tag set on the
// record is the registration state; see the verification package.
const (
	TagPendingVerification  = "pending-verification"
	TagEmailVerified        = "email-verified"
	TagRegistrationComplete = "registration-complete"
)

// Address is a customer shipping/billing address as held by the identity
// backend.
type Address struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone,omitempty"`
	Default   bool   `json:"default,omitempty"`
}

// Customer mirrors the remote identity record the storefront depends on.
// Tags carry the verification state machine.
type Customer struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name,omitempty"`
	LastName         string    `json:"last_name,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	AcceptsMarketing bool      `json:"accepts_marketing"`
	VerifiedEmail    bool      `json:"verified_email"`
	Tags             []string  `json:"tags,omitempty"`
	Addresses        []Address `json:"addresses,omitempty"`
	DefaultAddress   *Address  `json:"default_address,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// HasTag reports whether the customer record carries the given tag.
func (c Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

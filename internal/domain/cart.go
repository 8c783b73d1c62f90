package domain

import "time"

// CartLine is a purchasable variant held in a session cart. Line identity is
// the variant id plus creation time so duplicates stay distinguishable before
// they are merged.
type CartLine struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	VariantID string    `json:"variantId"`
	Title     string    `json:"title"`
	Price     Price     `json:"price"`
	Image     string    `json:"image"`
	Handle    string    `json:"handle"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// TotalPrice is unit price times quantity.
func (l CartLine) TotalPrice() Price {
	return Price{Amount: l.Price.Amount * int64(l.Quantity), Currency: l.Price.Currency}
}

// WishlistEntry is a saved product. Entries have set semantics on ProductID.
type WishlistEntry struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	VariantID string    `json:"variantId"`
	Title     string    `json:"title"`
	Price     Price     `json:"price"`
	Image     string    `json:"image"`
	Handle    string    `json:"handle"`
	AddedAt   time.Time `json:"dateAdded"`
}

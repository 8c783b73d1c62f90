// Package cart holds the session-scoped cart/wishlist state container. The
// in-memory collections are the source of truth for the session; the key-value
// store is a derived cache written after every mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"brassmart/internal/domain"
	"brassmart/internal/store"

	"github.com/google/uuid"
)

// ProductData carries the display fields captured when a variant enters the
// cart or wishlist. Missing fields are defaulted, never rejected.
type ProductData struct {
	ProductID string       `json:"productId"`
	Title     string       `json:"title"`
	Price     domain.Price `json:"price"`
	Image     string       `json:"image"`
	Handle    string       `json:"handle"`
}

// Container is the single authority for one session's cart and wishlist.
// Every mutation is persisted synchronously; persistence failures are logged
// and the in-memory state stays authoritative for the rest of the session.
type Container struct {
	mu        sync.Mutex
	sessionID string
	store     store.Store
	logger    *log.Logger
	now       func() time.Time

	lines    []domain.CartLine
	wishlist []domain.WishlistEntry
}

// New builds a Container for the given session, loading any previously
// persisted collections. Unreadable or corrupt records fall back to empty.
func New(ctx context.Context, sessionID string, st store.Store, logger *log.Logger) *Container {
	c := &Container{
		sessionID: sessionID,
		store:     st,
		logger:    logger,
		now:       time.Now,
	}
	c.lines = loadSlice[domain.CartLine](ctx, st, logger, c.cartKey())
	c.wishlist = loadSlice[domain.WishlistEntry](ctx, st, logger, c.wishlistKey())
	return c
}

func (c *Container) cartKey() string     { return "brassmart:cart:" + c.sessionID }
func (c *Container) wishlistKey() string { return "brassmart:wishlist:" + c.sessionID }

// AddItem merges quantity into an existing line for the variant, or appends a
// new line built from data. Quantities below one are treated as one. No
// inventory check is made; availability enforcement lives in the catalog
// layer.
func (c *Container) AddItem(ctx context.Context, variantID string, quantity int, data ProductData) domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].VariantID == variantID {
			c.lines[i].Quantity += quantity
			c.persistCart(ctx)
			return c.lines[i]
		}
	}

	image := data.Image
	if image == "" {
		image = domain.PlaceholderImage
	}
	line := domain.CartLine{
		ID:        variantID + "-" + uuid.NewString(),
		ProductID: data.ProductID,
		VariantID: variantID,
		Title:     data.Title,
		Price:     data.Price,
		Image:     image,
		Handle:    data.Handle,
		Quantity:  quantity,
		AddedAt:   c.now(),
	}
	c.lines = append(c.lines, line)
	c.persistCart(ctx)
	return line
}

// RemoveItem deletes the line for the variant; removing an absent variant is
// a no-op.
func (c *Container) RemoveItem(ctx context.Context, variantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLineLocked(ctx, variantID)
}

func (c *Container) removeLineLocked(ctx context.Context, variantID string) {
	for i := range c.lines {
		if c.lines[i].VariantID == variantID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.persistCart(ctx)
			return
		}
	}
}

// UpdateQuantity sets the line quantity directly. A quantity of zero or below
// removes the line.
func (c *Container) UpdateQuantity(ctx context.Context, variantID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLineLocked(ctx, variantID)
		return
	}
	for i := range c.lines {
		if c.lines[i].VariantID == variantID {
			c.lines[i].Quantity = quantity
			c.persistCart(ctx)
			return
		}
	}
}

// ClearCart empties the cart, as after a confirmed order.
func (c *Container) ClearCart(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.persistCart(ctx)
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Container) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsInCart reports whether the variant has a line.
func (c *Container) IsInCart(variantID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.lines {
		if l.VariantID == variantID {
			return true
		}
	}
	return false
}

// TotalItems is the sum of line quantities.
func (c *Container) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity across all lines, in
// minor units. The currency of the first line wins; carts are single-currency
// in practice.
func (c *Container) TotalPrice() domain.Price {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total domain.Price
	for _, l := range c.lines {
		if total.Currency == "" {
			total.Currency = l.Price.Currency
		}
		total.Amount += l.Price.Amount * int64(l.Quantity)
	}
	return total
}

// AddToWishlist appends an entry unless one already exists for the product.
func (c *Container) AddToWishlist(ctx context.Context, variantID string, data ProductData) domain.WishlistEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.wishlist {
		if e.ProductID == data.ProductID {
			return e
		}
	}
	entry := domain.WishlistEntry{
		ID:        uuid.NewString(),
		ProductID: data.ProductID,
		VariantID: variantID,
		Title:     data.Title,
		Price:     data.Price,
		Image:     data.Image,
		Handle:    data.Handle,
		AddedAt:   c.now(),
	}
	c.wishlist = append(c.wishlist, entry)
	c.persistWishlist(ctx)
	return entry
}

// RemoveFromWishlist drops the entry for the product if present.
func (c *Container) RemoveFromWishlist(ctx context.Context, productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeWishlistLocked(ctx, productID)
}

func (c *Container) removeWishlistLocked(ctx context.Context, productID string) {
	for i := range c.wishlist {
		if c.wishlist[i].ProductID == productID {
			c.wishlist = append(c.wishlist[:i], c.wishlist[i+1:]...)
			c.persistWishlist(ctx)
			return
		}
	}
}

// IsInWishlist reports set membership on product id.
func (c *Container) IsInWishlist(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.wishlist {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

// ClearWishlist empties the wishlist.
func (c *Container) ClearWishlist(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wishlist = nil
	c.persistWishlist(ctx)
}

// Wishlist returns a copy of the wishlist entries.
func (c *Container) Wishlist() []domain.WishlistEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.WishlistEntry, len(c.wishlist))
	copy(out, c.wishlist)
	return out
}

// MoveToCart turns a wishlist entry into a cart line with quantity one and
// removes it from the wishlist. Unknown products are a no-op.
func (c *Container) MoveToCart(ctx context.Context, productID string) (domain.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.wishlist {
		if e.ProductID != productID {
			continue
		}
		var line domain.CartLine
		merged := false
		for i := range c.lines {
			if c.lines[i].VariantID == e.VariantID {
				c.lines[i].Quantity++
				line = c.lines[i]
				merged = true
				break
			}
		}
		if !merged {
			image := e.Image
			if image == "" {
				image = domain.PlaceholderImage
			}
			line = domain.CartLine{
				ID:        e.VariantID + "-" + uuid.NewString(),
				ProductID: e.ProductID,
				VariantID: e.VariantID,
				Title:     e.Title,
				Price:     e.Price,
				Image:     image,
				Handle:    e.Handle,
				Quantity:  1,
				AddedAt:   c.now(),
			}
			c.lines = append(c.lines, line)
		}
		c.persistCart(ctx)
		c.removeWishlistLocked(ctx, productID)
		return line, true
	}
	return domain.CartLine{}, false
}

func (c *Container) persistCart(ctx context.Context) {
	persistSlice(ctx, c.store, c.logger, c.cartKey(), c.lines)
}

func (c *Container) persistWishlist(ctx context.Context) {
	persistSlice(ctx, c.store, c.logger, c.wishlistKey(), c.wishlist)
}

func loadSlice[T any](ctx context.Context, st store.Store, logger *log.Logger, key string) []T {
	raw, err := st.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && logger != nil {
			logger.Printf("load %s: %v", key, err)
		}
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		if logger != nil {
			logger.Printf("decode %s: %v", key, err)
		}
		return nil
	}
	return out
}

func persistSlice[T any](ctx context.Context, st store.Store, logger *log.Logger, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		if logger != nil {
			logger.Printf("encode %s: %v", key, err)
		}
		return
	}
	if err := st.Set(ctx, key, raw); err != nil && logger != nil {
		logger.Printf("persist %s: %v", key, err)
	}
}

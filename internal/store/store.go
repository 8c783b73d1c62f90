// Package store provides the synchronous key-value persistence boundary used
// for session-scoped records (cart, wishlist, cached identity). Any storage
// technology can sit behind the interface; the in-memory implementation backs
// tests and single-node development.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// Store is a plain synchronous key-value interface.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Package kvstore provides the persistent key-value medium underlying all
// crewdesk collections. Backends are deliberately dumb: one string key maps
// to one opaque blob, with full-replace write semantics and no cross-key
// transactions.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// ErrUnavailable is returned when the persistent medium cannot be
// read or written.
var ErrUnavailable = errors.New("storage unavailable")

// KV defines the interface for the persistent key-value medium.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put fully replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys with the given prefix, in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources held by the backend.
	Close() error
}

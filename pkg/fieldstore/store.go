package fieldstore

import (
	"context"
	"errors"
)

// Store defines the interface for field persistence backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key in scope.
	// Returns ("", false, nil) if the key doesn't exist.
	Get(ctx context.Context, scope, key string) (string, bool, error)

	// Set stores value under key in scope, overwriting any previous value.
	Set(ctx context.Context, scope, key, value string) error

	// Delete removes the given keys from scope in one operation.
	// Missing keys are not an error.
	Delete(ctx context.Context, scope string, keys ...string) error

	// List returns every key/value pair stored in scope.
	List(ctx context.Context, scope string) (map[string]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// ErrStoreClosed is returned when operations are attempted on a closed store.
var ErrStoreClosed = errors.New("fieldstore: store is closed")

// Bucket is a Store bound to a single scope.
type Bucket struct {
	store Store
	scope string
}

// NewBucket binds store to scope.
func NewBucket(store Store, scope string) *Bucket {
	return &Bucket{store: store, scope: scope}
}

// Scope returns the bound scope.
func (b *Bucket) Scope() string {
	return b.scope
}

// Get returns the value stored under key.
func (b *Bucket) Get(ctx context.Context, key string) (string, bool, error) {
	return b.store.Get(ctx, b.scope, key)
}

// Set stores value under key.
func (b *Bucket) Set(ctx context.Context, key, value string) error {
	return b.store.Set(ctx, b.scope, key, value)
}

// Delete removes keys in one operation.
func (b *Bucket) Delete(ctx context.Context, keys ...string) error {
	return b.store.Delete(ctx, b.scope, keys...)
}

// List returns every pair in the bucket.
func (b *Bucket) List(ctx context.Context) (map[string]string, error) {
	return b.store.List(ctx, b.scope)
}

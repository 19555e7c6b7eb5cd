// Package storage persists application state as a map of string keys to
// opaque byte blobs.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("storage: store closed")

// ErrInvalidKey is returned for empty keys or keys a store cannot represent.
var ErrInvalidKey = errors.New("storage: invalid key")

// Store is a byte-oriented key/blob store. Implementations are safe for
// concurrent use: the same store is reached from startup hydration, periodic
// flushes and the final flush, which may run on different goroutines.
type Store interface {
	// Get returns the blob for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a blob, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)
	// Close releases the store. Later calls return ErrClosed.
	Close() error
}

func validKey(key string) bool {
	return key != ""
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

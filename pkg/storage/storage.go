// Package storage holds the key/value backends that keep the registration collection blob.
//
// Every backend stores opaque byte values under string keys and rewrites the whole value on Put;
// there is no partial update and no compare-and-set.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// BlobStore is the contract shared by the memory, file, Redis and Postgres backends.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

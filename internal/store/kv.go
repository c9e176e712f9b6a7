package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when no value exists for the key.
var ErrKeyNotFound = errors.New("key not found")

// KV is the opaque blob storage the local store sits on. The dataset lives
// under a single key; the sync URL under another.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

package store

import "context"

// BlobStore is durable key-value storage of opaque JSON blobs. The physical
// format under each key belongs to the repository that owns the key; the store
// itself never inspects values.
type BlobStore interface {
	// Get returns the blob for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

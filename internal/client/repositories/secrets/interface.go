// Package secrets is a key/value repository of opaque blobs in the local
// vault database. Values are stored as given; encryption happens above.
package secrets

import "context"

// Repository stores opaque values by key. Get returns (nil, nil) for an
// unknown key; Delete of an unknown key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

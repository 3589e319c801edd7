// Package blob provides the object-store seam used to hold raw archive bytes
package blob

import "context"

// Receipt describes a stored object
type Receipt struct {
	Key  string
	Size int64
}

// Putter writes an object under a key, overwriting any previous object
type Putter interface {
	Put(ctx context.Context, key string, data []byte) (Receipt, error)
}

// Getter reads an object back by key
type Getter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Store is the full object-store surface
type Store interface {
	Putter
	Getter
}

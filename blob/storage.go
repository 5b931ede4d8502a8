// Package blob defines the minimal capability the snapshot engine needs
// from an object store: full-object get, multi-part put. One driver
// (S3-compatible, see blob/s3) implements it; the interface itself is
// generalized from kopia's older single-file blob.Storage contract.
package blob

import "context"

// Store is the minimal BlobStore capability required by §4.6: a full
// fetch and a multi-part upload, keyed by an opaque string.
type Store interface {
	// Get fetches the full object named key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put uploads data under key using multi-part transfer where the
	// driver supports it.
	Put(ctx context.Context, key string, data []byte) error
}

// Package assets stores and removes binary user assets (avatars, cover
// images) in an S3-compatible object store. The core treats the store as a
// fallible external collaborator: uploads fail loudly, deletes are
// best-effort compensation.
package assets

import (
	"context"
	"io"
)

// Asset is a stored binary object: the public URL handed to clients and the
// storage key used for later deletion.
type Asset struct {
	URL string
	Key string
}

// Gateway is the upload/delete contract consumed by the registration and
// account workflows.
type Gateway interface {
	// Upload stores content under a fresh key derived from filename.
	Upload(ctx context.Context, filename string, content io.Reader) (*Asset, error)

	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error
}

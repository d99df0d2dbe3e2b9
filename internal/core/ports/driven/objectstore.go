package driven

import "context"

// ObjectStore moves run artifacts to and from remote object storage.
type ObjectStore interface {
	// Download fetches an object into a local file.
	// Returns domain.ErrNotFound if the object does not exist.
	Download(ctx context.Context, key, destPath string) error

	// Upload stores a local file under key.
	Upload(ctx context.Context, srcPath, key string) error
}

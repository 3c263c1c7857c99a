// Package blob abstracts the object store the image pipeline writes to.
// Keys are bucket-relative; the bucket itself is fixed per Storage instance.
package blob

import "context"

type Storage interface {
	// Put stores body under key. Implementations must be safe for
	// concurrent use.
	Put(ctx context.Context, key string, body []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the public URL an object at key is served from.
	// It does not touch the network and does not check existence.
	PublicURL(key string) string
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound indicates the requested key does not exist in the backend.
	ErrNotFound = errors.New("object not found")
	// ErrUnavailable indicates a transient failure talking to the backend.
	// Callers may retry the whole operation; Store mints a fresh key per
	// attempt, so retries are safe.
	ErrUnavailable = errors.New("storage unavailable")
)

// Object is the durable locator returned by Store.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Backend stores, retrieves, and deletes binary blobs by key. Exactly one
// implementation is selected at startup and injected into everything that
// touches image bytes.
type Backend interface {
	// Store writes data under a freshly generated key below prefix and
	// returns the locator. It never overwrites an existing key.
	Store(ctx context.Context, prefix string, data []byte, originalName, mimeType string) (*Object, error)

	// Retrieve reads the bytes stored under key. Returns ErrNotFound if the
	// key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object at key. Deleting an absent key is a no-op,
	// not an error.
	Delete(ctx context.Context, key string) error

	// AccessURL returns a fetchable URL for key, valid for ttl. Local
	// backends return a relative path with no real expiry.
	AccessURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// RegionalBackend is implemented by backends that can serve reads from a
// viewer-preferred delivery region.
type RegionalBackend interface {
	Backend

	RetrieveRegion(ctx context.Context, key string, preferred Region) ([]byte, error)
	AccessURLRegion(ctx context.Context, key string, ttl time.Duration, preferred Region) (string, error)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}

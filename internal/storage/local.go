package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// LocalBackend stores blobs on the local filesystem under a root directory.
// Access URLs are relative paths; the same process serves them, so there is
// no real expiry.
type LocalBackend struct {
	root string
}

func NewLocalBackend(root string) *LocalBackend {
	return &LocalBackend{root: root}
}

func (b *LocalBackend) Store(ctx context.Context, prefix string, data []byte, originalName, mimeType string) (*Object, error) {
	key := GenerateKey(prefix, originalName)
	path := filepath.Join(b.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, unavailable("create upload dir", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, unavailable("write file", err)
	}

	return &Object{Key: key, URL: "/" + key}, nil
}

func (b *LocalBackend) Retrieve(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("read file", err)
	}
	return data, nil
}

// Delete removes the file for key. A missing file already satisfies the
// goal ("key is absent"), so it is not an error.
func (b *LocalBackend) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(b.root, filepath.FromSlash(key)))
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return unavailable("delete file", err)
}

func (b *LocalBackend) AccessURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "/" + key, nil
}

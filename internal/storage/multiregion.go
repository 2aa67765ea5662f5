package storage

import (
	"context"
	"errors"
	"time"
)

// MultiRegionBackend serves uploads from a primary (US) bucket and reads
// from a viewer-preferred region. Writes always go to the primary;
// replication to the EU bucket happens out-of-band, so an EU read that
// misses falls back to the primary. The reverse fallback never happens —
// the primary is authoritative.
type MultiRegionBackend struct {
	primary *S3Backend
	eu      *S3Backend
}

func NewMultiRegionBackend(primary, eu *S3Backend) *MultiRegionBackend {
	return &MultiRegionBackend{primary: primary, eu: eu}
}

func (b *MultiRegionBackend) Store(ctx context.Context, prefix string, data []byte, originalName, mimeType string) (*Object, error) {
	return b.primary.Store(ctx, prefix, data, originalName, mimeType)
}

func (b *MultiRegionBackend) Retrieve(ctx context.Context, key string) ([]byte, error) {
	return b.primary.Retrieve(ctx, key)
}

// Delete removes the object from the primary bucket. The EU copy is removed
// best-effort; replication cleanup owns any leftover.
func (b *MultiRegionBackend) Delete(ctx context.Context, key string) error {
	if err := b.primary.Delete(ctx, key); err != nil {
		return err
	}
	_ = b.eu.Delete(ctx, key)
	return nil
}

func (b *MultiRegionBackend) AccessURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return b.primary.AccessURL(ctx, key, ttl)
}

func (b *MultiRegionBackend) RetrieveRegion(ctx context.Context, key string, preferred Region) ([]byte, error) {
	if preferred == RegionEU {
		data, err := b.eu.Retrieve(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		// Replication lag: the object may not have reached the EU bucket yet.
	}
	return b.primary.Retrieve(ctx, key)
}

func (b *MultiRegionBackend) AccessURLRegion(ctx context.Context, key string, ttl time.Duration, preferred Region) (string, error) {
	if preferred == RegionEU {
		ok, err := b.eu.Exists(ctx, key)
		if err != nil {
			return "", err
		}
		if ok {
			return b.eu.AccessURL(ctx, key, ttl)
		}
	}
	return b.primary.AccessURL(ctx, key, ttl)
}

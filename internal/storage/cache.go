package storage

import (
	"context"
	"io"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"doccontrol/internal/domain/services"
)

// CachingStore wraps a BlobStore and memoizes signed URLs. A URL is
// cached for half its TTL so a cached hit always has at least half the
// lifetime remaining.
type CachingStore struct {
	inner services.BlobStore
	urls  *gocache.Cache
}

// NewCachingStore wraps inner with a signed-URL cache.
func NewCachingStore(inner services.BlobStore) *CachingStore {
	return &CachingStore{
		inner: inner,
		urls:  gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Put writes through to the inner store and invalidates any cached URL
// for the key.
func (c *CachingStore) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	if err := c.inner.Put(ctx, key, content, size, contentType); err != nil {
		return err
	}
	c.urls.Delete(key)
	return nil
}

// SignedURL returns a cached URL when one with sufficient remaining
// lifetime exists, otherwise signs a fresh one.
func (c *CachingStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if cached, ok := c.urls.Get(key); ok {
		return cached.(string), nil
	}

	url, err := c.inner.SignedURL(ctx, key, ttl)
	if err != nil {
		return "", err
	}
	c.urls.Set(key, url, ttl/2)
	return url, nil
}

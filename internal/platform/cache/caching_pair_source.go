package cache

import (
	"context"
	"encoding/json"

	"pair_dashboard/internal/feature/pairs/domain/entity"
	"pair_dashboard/internal/feature/pairs/usecase"
)

// CachingPairSource decorates a PairSource with a Store.
// A nil store bypasses caching entirely.
type CachingPairSource struct {
	inner     usecase.PairSource
	store     Store
	ttl       TTLPolicy
	namespace string
}

var _ usecase.PairSource = (*CachingPairSource)(nil)

// NewCachingPairSource decorates inner. A nil ttl means entries never expire;
// an empty namespace defaults to "pairs".
func NewCachingPairSource(store Store, ttl TTLPolicy, inner usecase.PairSource, namespace string) *CachingPairSource {
	if ttl == nil {
		ttl = FixedTTL(0)
	}
	if namespace == "" {
		namespace = "pairs"
	}
	return &CachingPairSource{inner: inner, store: store, ttl: ttl, namespace: namespace}
}

// ListInstruments returns the cached catalog, or fetches and stores it.
// Failed fetches are never stored.
func (c *CachingPairSource) ListInstruments(ctx context.Context) ([]entity.Instrument, error) {
	if c.store == nil {
		return c.inner.ListInstruments(ctx)
	}

	key := c.cacheKey()

	// 1) Check cache
	if b, err := c.store.Get(ctx, key); err == nil && len(b) > 0 {
		var out []entity.Instrument
		if err := json.Unmarshal(b, &out); err == nil && out != nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.store.Del(ctx, key)
	}

	// 2) Fallback to the exchange
	out, err := c.inner.ListInstruments(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Instrument{}
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.store.Set(ctx, key, b, c.ttl())
	}
	return out, nil
}

// Purge deletes every entry in the namespace.
func (c *CachingPairSource) Purge(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.DeletePrefix(ctx, c.namespace+":")
}

// Namespace returns the key prefix owned by this decorator.
func (c *CachingPairSource) Namespace() string { return c.namespace }

func (c *CachingPairSource) cacheKey() string {
	return c.namespace + ":list_instruments"
}

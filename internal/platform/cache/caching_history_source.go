package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"pair_dashboard/internal/feature/candles/domain/entity"
	"pair_dashboard/internal/feature/candles/usecase"
)

// CachingHistorySource decorates a HistorySource with a Store.
// Keys are namespace:symbol:interval:limit.
type CachingHistorySource struct {
	inner     usecase.HistorySource
	store     Store
	ttl       TTLPolicy
	namespace string
}

var _ usecase.HistorySource = (*CachingHistorySource)(nil)

// NewCachingHistorySource decorates inner. A nil ttl means entries never
// expire; an empty namespace defaults to "candles".
func NewCachingHistorySource(store Store, ttl TTLPolicy, inner usecase.HistorySource, namespace string) *CachingHistorySource {
	if ttl == nil {
		ttl = FixedTTL(0)
	}
	if namespace == "" {
		namespace = "candles"
	}
	return &CachingHistorySource{inner: inner, store: store, ttl: ttl, namespace: namespace}
}

// GetKlines returns cached rows for the window, or fetches and stores them.
func (c *CachingHistorySource) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]entity.CandleRow, error) {
	if c.store == nil {
		return c.inner.GetKlines(ctx, symbol, interval, limit)
	}

	key := c.cacheKey(symbol, interval, limit)

	if b, err := c.store.Get(ctx, key); err == nil && len(b) > 0 {
		var out []entity.CandleRow
		if err := json.Unmarshal(b, &out); err == nil && out != nil {
			return out, nil
		}
		_ = c.store.Del(ctx, key)
	}

	out, err := c.inner.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.CandleRow{}
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.store.Set(ctx, key, b, c.ttl())
	}
	return out, nil
}

// Purge deletes every entry in the namespace.
func (c *CachingHistorySource) Purge(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.DeletePrefix(ctx, c.namespace+":")
}

// PurgeSymbol deletes the cached windows of one symbol.
func (c *CachingHistorySource) PurgeSymbol(ctx context.Context, symbol string) error {
	if c.store == nil {
		return nil
	}
	return c.store.DeletePrefix(ctx, c.namespace+":"+safe(symbol)+":")
}

// Namespace returns the key prefix owned by this decorator.
func (c *CachingHistorySource) Namespace() string { return c.namespace }

func (c *CachingHistorySource) cacheKey(symbol, interval string, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%d",
		c.namespace,
		safe(symbol),
		safe(interval),
		limit,
	)
}

package di

import (
	"context"
	"log/slog"

	redisv9 "github.com/redis/go-redis/v9"

	"pair_dashboard/internal/app/config"
	candleusecase "pair_dashboard/internal/feature/candles/usecase"
	pairsusecase "pair_dashboard/internal/feature/pairs/usecase"
	"pair_dashboard/internal/platform/cache"
	"pair_dashboard/internal/platform/http/handler"
	infraredis "pair_dashboard/internal/platform/redis"
	"pair_dashboard/internal/shared/retrieval"
)

// Services holds the wired fetchers and the cache decorators in front of them.
type Services struct {
	Pairs        *pairsusecase.PairsUsecase
	History      *candleusecase.HistoryUsecase
	PairCache    *cache.CachingPairSource
	HistoryCache *cache.CachingHistorySource
	// CacheHealth is nil unless the cache lives in Redis.
	CacheHealth handler.Pinger

	rdb *redisv9.Client
}

// NewServices wires the market backend, cache and usecases from cfg.
// A nil reporter logs failures through slog.
//
// When Redis is selected but unreachable the services run without a cache.
func NewServices(ctx context.Context, cfg config.Config, reporter retrieval.Reporter) *Services {
	return NewServicesWithMarket(ctx, cfg, NewMarket(cfg.Market), reporter)
}

// NewServicesWithMarket is NewServices with an explicit backend.
func NewServicesWithMarket(ctx context.Context, cfg config.Config, market Market, reporter retrieval.Reporter) *Services {
	if reporter == nil {
		reporter = retrieval.NewLogReporter(nil)
	}
	s := &Services{}

	var store cache.Store
	ttl := cache.FixedTTL(0)
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
			break
		}
		rs := cache.NewRedisStore(rdb)
		store, s.CacheHealth, s.rdb = rs, rs, rdb
		ttl = cache.UntilNextUTCMidnight
	case config.CacheNone:
	default:
		store = cache.NewMemoryStore()
	}
	if cfg.Cache.TTL > 0 {
		ttl = cache.FixedTTL(cfg.Cache.TTL)
	}

	s.PairCache = cache.NewCachingPairSource(store, ttl, market, "pairs")
	s.HistoryCache = cache.NewCachingHistorySource(store, ttl, market, "candles")
	s.Pairs = pairsusecase.NewPairsUsecase(s.PairCache, reporter)
	s.History = candleusecase.NewHistoryUsecase(s.HistoryCache, reporter)

	slog.Info("services ready",
		"backend", string(cfg.Market.Backend),
		"base_url", cfg.Market.BaseURL,
		"cache", string(cfg.Cache.Backend),
		"cache_active", store != nil,
	)
	return s
}

// Close releases the Redis connection, if any.
func (s *Services) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

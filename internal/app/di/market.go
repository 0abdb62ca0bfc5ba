// Package di provides dependency injection factories for creating application components.
package di

import (
	"net/http"

	candleusecase "pair_dashboard/internal/feature/candles/usecase"
	pairsusecase "pair_dashboard/internal/feature/pairs/usecase"
	"pair_dashboard/internal/platform/externalapi/binance"
	infrahttp "pair_dashboard/internal/platform/http"
	"pair_dashboard/internal/shared/ratelimiter"
)

// Market is a backend able to serve both fetchers.
type Market interface {
	pairsusecase.PairSource
	candleusecase.HistorySource
}

// NewMarket creates the configured exchange backend with its HTTP client.
// The User-Agent header and request pacing are applied as transport layers,
// so both backends get them identically.
func NewMarket(cfg binance.Config) Market {
	httpClient := NewMarketHTTPClient(cfg)
	switch cfg.Backend {
	case binance.BackendREST:
		return binance.NewRESTMarket(cfg, httpClient)
	default:
		return binance.NewSDKMarket(cfg, httpClient)
	}
}

// NewMarketHTTPClient builds the outbound client for the exchange.
func NewMarketHTTPClient(cfg binance.Config) *http.Client {
	var pace infrahttp.Middleware
	if cfg.RateLimit > 0 {
		rl := ratelimiter.NewRateLimiter(cfg.RateLimit, 1)
		pace = func(next http.RoundTripper) http.RoundTripper {
			return ratelimiter.Transport(rl, next)
		}
	}
	return infrahttp.NewHTTPClient(cfg.Timeout, pace, infrahttp.WithUserAgent(cfg.UserAgent))
}

var (
	_ Market = (*binance.RESTMarket)(nil)
	_ Market = (*binance.SDKMarket)(nil)
)

// Package ratelimiter paces outbound calls to the exchange.
package ratelimiter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter は、トークンバケット方式でAPI呼び出しの頻度を制限します。
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter は1秒あたりperSecond回、最大burst回まで連続実行できるRateLimiterを生成します。
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait はトークンが得られるまで待機します。ctxがキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := rl.limiter.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited > 100*time.Millisecond {
		slog.Debug("rate limit wait", "waited", waited)
	}
	return nil
}

// Transport returns an http.RoundTripper that waits on rl before every request.
func Transport(rl RateLimiterInterface, next http.RoundTripper) http.RoundTripper {
	return &transport{rl: rl, next: next}
}

type transport struct {
	rl   RateLimiterInterface
	next http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.rl.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

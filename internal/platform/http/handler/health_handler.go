// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger はキャッシュバックエンドの疎通確認を抽象化します。
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler は /healthz を処理します。
type HealthHandler struct {
	cache Pinger
}

// NewHealthHandler creates a HealthHandler. cache may be nil when the cache
// is process-local or disabled.
func NewHealthHandler(cache Pinger) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// キャッシュの障害はサービス停止ではないため、常に200を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cache": h.cacheStatus(c.Request.Context())})
	}
}

func (h *HealthHandler) cacheStatus(ctx context.Context) string {
	if h.cache == nil {
		return "local"
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := h.cache.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}

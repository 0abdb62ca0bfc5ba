package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Purger はキャッシュの名前空間を削除できるデコレーターです。
type Purger interface {
	Purge(ctx context.Context) error
	Namespace() string
}

// SymbolPurger は銘柄単位でキャッシュを削除できるデコレーターです。
type SymbolPurger interface {
	PurgeSymbol(ctx context.Context, symbol string) error
	Namespace() string
}

// CacheHandler は DELETE /cache を処理します。
type CacheHandler struct {
	purgers []Purger
}

// NewCacheHandler creates a CacheHandler over the given decorators.
func NewCacheHandler(purgers ...Purger) *CacheHandler {
	return &CacheHandler{purgers: purgers}
}

// Purge は全名前空間、または ?symbol= 指定時はその銘柄のエントリのみ削除します。
func (h *CacheHandler) Purge(c *gin.Context) {
	ctx := c.Request.Context()
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))

	purged := make([]string, 0, len(h.purgers))
	for _, p := range h.purgers {
		var err error
		if symbol != "" {
			sp, ok := p.(SymbolPurger)
			if !ok {
				continue
			}
			err = sp.PurgeSymbol(ctx, symbol)
		} else {
			err = p.Purge(ctx)
		}
		if err != nil {
			slog.Error("cache purge failed", "namespace", p.Namespace(), "symbol", symbol, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cache purge failed", "namespace": p.Namespace()})
			return
		}
		purged = append(purged, p.Namespace())
	}

	slog.Info("cache purged", "namespaces", purged, "symbol", symbol)
	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

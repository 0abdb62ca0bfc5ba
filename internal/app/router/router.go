package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	candleshandler "pair_dashboard/internal/feature/candles/transport/handler"
	pairshandler "pair_dashboard/internal/feature/pairs/transport/handler"
	"pair_dashboard/internal/platform/http/handler"
)

func NewRouter(corsOrigins []string, health *handler.HealthHandler, cache *handler.CacheHandler,
	pairs *pairshandler.PairsHandler, history *candleshandler.HistoryHandler) *gin.Engine {
	r := gin.Default()

	// ブラウザのダッシュボードから呼ぶ場合のみCORSを有効化
	// ルート登録より前に Use しないと適用されない
	if len(corsOrigins) > 0 {
		r.Use(cors.New(corsConfig(corsOrigins)))
	}

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)

	// USDT建てペア一覧
	r.GET("/pairs", pairs.List)
	// 直近30日の日足
	r.GET("/candles/:symbol", history.GetHistory)

	// キャッシュの明示的な破棄（?symbol= で銘柄単位）
	r.DELETE("/cache", cache.Purge)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

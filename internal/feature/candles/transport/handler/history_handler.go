// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"pair_dashboard/internal/feature/candles/domain/entity"
	"pair_dashboard/internal/feature/candles/transport/http/dto"
	"pair_dashboard/internal/shared/retrieval"
)

// HistoryUsecase はローソク足履歴取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type HistoryUsecase interface {
	FetchHistory(ctx context.Context, symbol string) (entity.CandleSeries, error)
}

// HistoryHandler はローソク足履歴のHTTPリクエストを処理します。
type HistoryHandler struct {
	uc HistoryUsecase
}

// NewHistoryHandler は指定されたusecaseでHistoryHandlerの新しいインスタンスを生成します。
func NewHistoryHandler(uc HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// GetHistory は銘柄コードを受け取り、直近30日分の日足をJSONで返します。
// 履歴が0件の場合は空のテーブルではなく status="no_data" を返します。
//
// エンドポイント例:
// GET /candles/BTCUSDT
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	series, err := h.uc.FetchHistory(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		status := http.StatusBadGateway
		if retrieval.KindOf(err) == retrieval.KindInvalidSymbol {
			status = http.StatusBadRequest
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error(), Kind: string(retrieval.KindOf(err))})
		return
	}

	out := dto.HistoryResponse{
		Symbol:   series.Symbol,
		Interval: series.Interval,
		Status:   dto.StatusOK,
		Candles:  make([]dto.CandleResponse, 0, series.Len()),
	}
	if series.Empty() {
		out.Status = dto.StatusNoData
	}

	// データをフォーマット
	for _, x := range series.Rows {
		out.Candles = append(out.Candles, dto.CandleResponse{
			Time:   x.Timestamp.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}

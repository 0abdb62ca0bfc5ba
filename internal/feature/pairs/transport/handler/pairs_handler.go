// Package handler はpairsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"pair_dashboard/internal/feature/pairs/transport/http/dto"
	"pair_dashboard/internal/shared/retrieval"
)

// PairsUsecase は取引ペア一覧に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type PairsUsecase interface {
	FetchPairs(ctx context.Context) ([]string, error)
}

// PairsHandler は取引ペア一覧に関するHTTPリクエストを処理します。
type PairsHandler struct {
	uc PairsUsecase
}

// NewPairsHandler は新しい PairsHandler を作成します。
func NewPairsHandler(uc PairsUsecase) *PairsHandler {
	return &PairsHandler{uc: uc}
}

// List はUSDT建ての取引ペア一覧をJSON配列で返すAPIです。
// 取得に失敗した場合は502 Bad Gatewayとエラー種別を返します。
// 空配列は「USDTペアが存在しない」ことを意味し、クライアントは履歴の取得に進みません。
func (h *PairsHandler) List(c *gin.Context) {
	pairs, err := h.uc.FetchPairs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error: err.Error(),
			Kind:  string(retrieval.KindOf(err)),
		})
		return
	}
	if pairs == nil {
		pairs = []string{}
	}
	c.JSON(http.StatusOK, pairs)
}

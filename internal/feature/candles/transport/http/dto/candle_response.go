// Package dto はcandlesフィーチャーのHTTPレスポンスDTOを定義します。
package dto

import "github.com/shopspring/decimal"

const (
	// StatusOK は履歴が1件以上あることを示します。
	StatusOK = "ok"
	// StatusNoData は有効な銘柄に対して履歴が0件だったことを示します。
	StatusNoData = "no_data"
)

// CandleResponse はロウソク足データのレスポンスDTOです。
// 価格と出来高は丸めないよう10進数の文字列として出力します（例: "65432.1"）。
type CandleResponse struct {
	Time   string          `json:"time"`   // 日付 (UTC)
	Open   decimal.Decimal `json:"open"`   // 始値
	High   decimal.Decimal `json:"high"`   // 高値
	Low    decimal.Decimal `json:"low"`    // 安値
	Close  decimal.Decimal `json:"close"`  // 終値
	Volume decimal.Decimal `json:"volume"` // 出来高
}

// HistoryResponse は1銘柄分の履歴レスポンスです。
type HistoryResponse struct {
	Symbol   string           `json:"symbol"`
	Interval string           `json:"interval"`
	Status   string           `json:"status"`
	Candles  []CandleResponse `json:"candles"`
}

// ErrorResponse は取得失敗時のレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

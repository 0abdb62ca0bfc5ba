// Package dto defines data transfer objects for the Binance REST API responses.
package dto

import "encoding/json"

// ExchangeInfoResponse represents the JSON response from /api/v3/exchangeInfo.
// Symbols is nil when the field is absent and non-nil (possibly empty) when present.
type ExchangeInfoResponse struct {
	Timezone   string       `json:"timezone"`
	ServerTime int64        `json:"serverTime"`
	Symbols    []SymbolInfo `json:"symbols"`
}

// SymbolInfo is one instrument descriptor.
type SymbolInfo struct {
	Symbol     string `json:"symbol"`
	Status     string `json:"status"`
	BaseAsset  string `json:"baseAsset"`
	QuoteAsset string `json:"quoteAsset"`
}

// KlineFields is the minimum arity of a kline record:
// open time, open, high, low, close, volume, close time, quote volume,
// trade count, taker buy base volume, taker buy quote volume, ignore.
const KlineFields = 12

// KlineRecord is one positional record from /api/v3/klines.
type KlineRecord []json.RawMessage

// APIError is the error body Binance returns with non-2xx statuses.
type APIError struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}

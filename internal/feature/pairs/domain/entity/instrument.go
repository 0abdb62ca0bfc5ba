// Package entity defines the domain models for the pairs feature.
package entity

// SettlementCurrency is the quote asset the catalog is filtered to.
const SettlementCurrency = "USDT"

// Instrument is one tradable pair as described by the exchange metadata endpoint.
type Instrument struct {
	Symbol     string `json:"symbol"`     // e.g. "BTCUSDT"
	BaseAsset  string `json:"baseAsset"`  // e.g. "BTC"
	QuoteAsset string `json:"quoteAsset"` // e.g. "USDT"
	Status     string `json:"status,omitempty"`
}

// SettlesIn reports whether the instrument is quoted in currency.
// The structured quote-asset field is compared, never the symbol text.
func (i Instrument) SettlesIn(currency string) bool {
	return i.QuoteAsset == currency
}

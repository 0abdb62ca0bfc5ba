// Package entity defines the domain models for the candles feature.
package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CandleRow is one daily OHLCV bucket.
type CandleRow struct {
	Timestamp time.Time       `json:"timestamp"` // bucket open time, UTC
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"` // traded base-asset quantity
}

// CandleSeries is an ascending sequence of rows for one symbol and window.
type CandleSeries struct {
	Symbol   string
	Interval string
	Rows     []CandleRow
}

// Empty reports whether the series has no rows.
func (s CandleSeries) Empty() bool { return len(s.Rows) == 0 }

// Len returns the number of rows.
func (s CandleSeries) Len() int { return len(s.Rows) }

// OpenTime converts an exchange open-time (milliseconds since epoch) to a UTC instant.
func OpenTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ParseCandleRow builds a row from an epoch-millisecond open time and textual prices.
func ParseCandleRow(openTimeMs int64, open, high, low, close, volume string) (CandleRow, error) {
	fields := []struct {
		name string
		raw  string
	}{
		{"open", open}, {"high", high}, {"low", low}, {"close", close}, {"volume", volume},
	}
	var parsed [5]decimal.Decimal
	for i, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return CandleRow{}, fmt.Errorf("parse %s %q: %w", f.name, f.raw, err)
		}
		parsed[i] = d
	}
	return CandleRow{
		Timestamp: OpenTime(openTimeMs),
		Open:      parsed[0],
		High:      parsed[1],
		Low:       parsed[2],
		Close:     parsed[3],
		Volume:    parsed[4],
	}, nil
}

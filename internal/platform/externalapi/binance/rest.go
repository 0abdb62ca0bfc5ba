package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	candleentity "pair_dashboard/internal/feature/candles/domain/entity"
	candleusecase "pair_dashboard/internal/feature/candles/usecase"
	pairsentity "pair_dashboard/internal/feature/pairs/domain/entity"
	pairsusecase "pair_dashboard/internal/feature/pairs/usecase"
	"pair_dashboard/internal/platform/externalapi/binance/dto"
	"pair_dashboard/internal/shared/retrieval"
)

const (
	opListInstruments = "list_instruments"
	opGetKlines       = "get_klines"

	exchangeInfoPath = "/api/v3/exchangeInfo"
	klinesPath       = "/api/v3/klines"

	// errorBodyLimit caps how much of a failed response body ends up in an error.
	errorBodyLimit = 2 << 10
)

// RESTMarket fetches market data by calling the Binance REST endpoints directly.
type RESTMarket struct {
	cfg    Config
	client *http.Client
}

// Verify at compile time that RESTMarket satisfies both source interfaces.
var (
	_ pairsusecase.PairSource     = (*RESTMarket)(nil)
	_ candleusecase.HistorySource = (*RESTMarket)(nil)
)

// NewRESTMarket creates a RESTMarket with the given configuration and HTTP client.
func NewRESTMarket(cfg Config, client *http.Client) *RESTMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &RESTMarket{cfg: cfg, client: client}
}

// ListInstruments returns every instrument descriptor from /api/v3/exchangeInfo.
func (m *RESTMarket) ListInstruments(ctx context.Context) ([]pairsentity.Instrument, error) {
	var body dto.ExchangeInfoResponse
	if err := m.getJSON(ctx, opListInstruments, exchangeInfoPath, nil, &body); err != nil {
		return nil, err
	}
	if body.Symbols == nil {
		return nil, retrieval.New(retrieval.KindMalformed, opListInstruments, errors.New(`response has no "symbols" field`))
	}

	out := make([]pairsentity.Instrument, 0, len(body.Symbols))
	for _, s := range body.Symbols {
		out = append(out, pairsentity.Instrument{
			Symbol:     s.Symbol,
			BaseAsset:  s.BaseAsset,
			QuoteAsset: s.QuoteAsset,
			Status:     s.Status,
		})
	}
	return out, nil
}

// GetKlines returns up to limit candles for symbol, oldest first.
func (m *RESTMarket) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]candleentity.CandleRow, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	var records []dto.KlineRecord
	if err := m.getJSON(ctx, opGetKlines, klinesPath, q, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, retrieval.New(retrieval.KindMalformed, opGetKlines, errors.New("response is not a kline array"))
	}

	rows := make([]candleentity.CandleRow, 0, len(records))
	for i, rec := range records {
		row, err := toCandleRow(rec)
		if err != nil {
			return nil, retrieval.New(retrieval.KindMalformed, opGetKlines, fmt.Errorf("kline %d: %w", i, err))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// getJSON issues a GET request and decodes a 2xx JSON body into out.
func (m *RESTMarket) getJSON(ctx context.Context, op, path string, q url.Values, out any) error {
	u := m.cfg.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return retrieval.New(retrieval.KindTransport, op, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := m.client.Do(req)
	if err != nil {
		return retrieval.New(retrieval.KindTransport, op, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorBodyLimit))
		return &retrieval.RetrievalError{
			Kind:       retrieval.KindStatus,
			Op:         op,
			StatusCode: res.StatusCode,
			Err:        statusCause(snippet),
		}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return retrieval.New(retrieval.KindMalformed, op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusCause prefers the Binance {"code","msg"} body and falls back to the raw body text.
func statusCause(body []byte) error {
	var apiErr dto.APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Msg != "" {
		return fmt.Errorf("binance code %d: %s", apiErr.Code, apiErr.Msg)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return errors.New("empty response body")
	}
	return errors.New(string(body))
}

// toCandleRow projects a positional kline record onto a CandleRow.
// Only open time, open, high, low, close and volume are kept.
func toCandleRow(rec dto.KlineRecord) (candleentity.CandleRow, error) {
	if len(rec) < dto.KlineFields {
		return candleentity.CandleRow{}, fmt.Errorf("expected at least %d fields, got %d", dto.KlineFields, len(rec))
	}

	openTime, err := parseMillis(rec[0])
	if err != nil {
		return candleentity.CandleRow{}, fmt.Errorf("parse open time %s: %w", rec[0], err)
	}

	names := [5]string{"open", "high", "low", "close", "volume"}
	var vals [5]decimal.Decimal
	for i, name := range names {
		d, err := parseDecimal(rec[i+1])
		if err != nil {
			return candleentity.CandleRow{}, fmt.Errorf("parse %s %s: %w", name, rec[i+1], err)
		}
		vals[i] = d
	}

	return candleentity.CandleRow{
		Timestamp: candleentity.OpenTime(openTime),
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, nil
}

// parseMillis accepts an integer JSON number or a quoted integer.
func parseMillis(raw json.RawMessage) (int64, error) {
	s := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	return strconv.ParseInt(s, 10, 64)
}

// parseDecimal accepts a quoted decimal ("65432.10") or a bare JSON number.
func parseDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Decimal{}, errors.New("missing value")
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}

package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	candleentity "pair_dashboard/internal/feature/candles/domain/entity"
	candleusecase "pair_dashboard/internal/feature/candles/usecase"
	pairsentity "pair_dashboard/internal/feature/pairs/domain/entity"
	pairsusecase "pair_dashboard/internal/feature/pairs/usecase"
	"pair_dashboard/internal/platform/externalapi/binance/dto"
	"pair_dashboard/internal/shared/retrieval"
)

// SDKMarket fetches market data through the go-binance client.
// Only public endpoints are used, so the client carries no API key.
type SDKMarket struct {
	client *gobinance.Client
}

var (
	_ pairsusecase.PairSource     = (*SDKMarket)(nil)
	_ candleusecase.HistorySource = (*SDKMarket)(nil)
)

// NewSDKMarket creates an SDKMarket. cfg.BaseURL overrides the SDK default host
// and httpClient replaces the SDK's own client when non-nil. The client is
// copied and its transport wrapped with responseCheck; httpClient itself is
// not modified.
func NewSDKMarket(cfg Config, httpClient *http.Client) *SDKMarket {
	c := gobinance.NewClient("", "")
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	hc := &http.Client{Timeout: defaultTimeout}
	if httpClient != nil {
		cp := *httpClient
		hc = &cp
	}
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = responseCheck{next: next}
	c.HTTPClient = hc
	return &SDKMarket{client: c}
}

// ListInstruments returns every instrument descriptor from the exchange info service.
func (m *SDKMarket) ListInstruments(ctx context.Context) ([]pairsentity.Instrument, error) {
	info, err := m.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, classify(opListInstruments, err)
	}
	if info == nil || info.Symbols == nil {
		return nil, retrieval.New(retrieval.KindMalformed, opListInstruments, errors.New(`response has no "symbols" field`))
	}

	out := make([]pairsentity.Instrument, 0, len(info.Symbols))
	for _, s := range info.Symbols {
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
func (m *SDKMarket) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]candleentity.CandleRow, error) {
	klines, err := m.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, classify(opGetKlines, err)
	}

	rows := make([]candleentity.CandleRow, 0, len(klines))
	for i, k := range klines {
		if k == nil {
			return nil, retrieval.New(retrieval.KindMalformed, opGetKlines, fmt.Errorf("kline %d is null", i))
		}
		row, err := candleentity.ParseCandleRow(k.OpenTime, k.Open, k.High, k.Low, k.Close, k.Volume)
		if err != nil {
			return nil, retrieval.New(retrieval.KindMalformed, opGetKlines, fmt.Errorf("kline %d: %w", i, err))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// classify maps SDK errors onto retrieval kinds.
//
// Non-2xx answers are intercepted by responseCheck, so StatusCode is filled
// in the same way as for RESTMarket. A bare *common.APIError only reaches this
// point if the SDK rejects a 2xx body; it then carries the Binance code but no
// HTTP status.
func classify(op string, err error) *retrieval.RetrievalError {
	var (
		urlErr   *url.Error
		stErr    *statusError
		shapeErr *shapeError
		apiErr   *common.APIError
	)
	switch {
	case errors.As(err, &stErr):
		return &retrieval.RetrievalError{Kind: retrieval.KindStatus, Op: op, StatusCode: stErr.code, Err: stErr.cause}
	case errors.As(err, &shapeErr):
		return retrieval.New(retrieval.KindMalformed, op, shapeErr.err)
	case errors.As(err, &apiErr):
		return retrieval.New(retrieval.KindStatus, op, fmt.Errorf("binance code %d: %s", apiErr.Code, apiErr.Message))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.As(err, &urlErr):
		return retrieval.New(retrieval.KindTransport, op, err)
	default:
		return retrieval.New(retrieval.KindMalformed, op, err)
	}
}

// statusError is a non-2xx answer seen by responseCheck.
type statusError struct {
	code  int
	cause error
}

func (e *statusError) Error() string { return fmt.Sprintf("http %d: %v", e.code, e.cause) }

// shapeError is a 2xx kline body that does not hold kline records.
type shapeError struct {
	err error
}

func (e *shapeError) Error() string { return e.err.Error() }

// responseCheck sits under the SDK. The SDK decodes klines leniently (a
// non-array body reads as zero rows), so kline bodies are validated here
// with the same rules RESTMarket applies.
type responseCheck struct {
	next http.RoundTripper
}

func (t responseCheck) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorBodyLimit))
		_ = res.Body.Close()
		return nil, &statusError{code: res.StatusCode, cause: statusCause(snippet)}
	}
	if !strings.HasSuffix(req.URL.Path, klinesPath) {
		return res, nil
	}

	body, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if err != nil {
		return nil, err
	}
	if err := checkKlines(body); err != nil {
		return nil, &shapeError{err: err}
	}
	res.Body = io.NopCloser(bytes.NewReader(body))
	res.ContentLength = int64(len(body))
	return res, nil
}

// checkKlines requires a JSON array of complete kline records.
func checkKlines(body []byte) error {
	var records []dto.KlineRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if records == nil {
		return errors.New("response is not a kline array")
	}
	for i, rec := range records {
		if _, err := toCandleRow(rec); err != nil {
			return fmt.Errorf("kline %d: %w", i, err)
		}
	}
	return nil
}

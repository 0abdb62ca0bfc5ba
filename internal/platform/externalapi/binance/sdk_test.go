package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pair_dashboard/internal/shared/retrieval"
)

// sdkKlinesJSON uses string prices throughout, which is what the live API returns.
const sdkKlinesJSON = `[
	[1700000000000, "36000.00", "36500.00", "35800.00", "65432.10", "1234.50", 1700086399999, "44000000.00", 1500, "600.00", "21000000.00", "0"],
	[1700086400000, "36100.50", "36600.00", "35900.00", "36200.25", "1100.00", 1700172799999, "40000000.00", 1400, "550.00", "20000000.00", "0"]
]`

func TestNewSDKMarket(t *testing.T) {
	t.Parallel()

	base := &http.Transport{}
	client := &http.Client{Timeout: 3 * time.Second, Transport: base}
	market := NewSDKMarket(Config{BaseURL: "https://example.test"}, client)

	require.NotNil(t, market)
	assert.Equal(t, "https://example.test", market.client.BaseURL)
	assert.Equal(t, 3*time.Second, market.client.HTTPClient.Timeout)
	check, ok := market.client.HTTPClient.Transport.(responseCheck)
	require.True(t, ok, "SDK transport should be wrapped")
	assert.Same(t, base, check.next)
	// 呼び出し元のクライアントは変更しない
	assert.Same(t, base, client.Transport)
}

func TestNewSDKMarket_NilClient(t *testing.T) {
	t.Parallel()

	market := NewSDKMarket(Config{}, nil)

	check, ok := market.client.HTTPClient.Transport.(responseCheck)
	require.True(t, ok)
	assert.Equal(t, http.DefaultTransport, check.next)
}

func TestSDKMarket_ListInstruments(t *testing.T) {
	t.Parallel()

	server := newMarketServer(t, exchangeInfoJSON, sdkKlinesJSON)
	market := NewSDKMarket(Config{BaseURL: server.URL}, server.Client())

	instruments, err := market.ListInstruments(context.Background())
	require.NoError(t, err)

	require.Len(t, instruments, 2)
	assert.Equal(t, "BTCUSDT", instruments[0].Symbol)
	assert.Equal(t, "USDT", instruments[0].QuoteAsset)
	assert.Equal(t, "ETHBTC", instruments[1].Symbol)
	assert.Equal(t, "BTC", instruments[1].QuoteAsset)
}

func TestSDKMarket_ListInstruments_MissingSymbols(t *testing.T) {
	t.Parallel()

	server := newMarketServer(t, `{"timezone":"UTC"}`, sdkKlinesJSON)
	market := NewSDKMarket(Config{BaseURL: server.URL}, server.Client())

	_, err := market.ListInstruments(context.Background())
	require.Error(t, err)
	assert.Equal(t, retrieval.KindMalformed, retrieval.KindOf(err))
}

func TestSDKMarket_GetKlines(t *testing.T) {
	t.Parallel()

	server := newMarketServer(t, exchangeInfoJSON, sdkKlinesJSON)
	market := NewSDKMarket(Config{BaseURL: server.URL}, server.Client())

	rows, err := market.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), rows[0].Timestamp)
	assert.True(t, rows[0].Close.Equal(decimal.RequireFromString("65432.10")))
	assert.True(t, rows[1].Open.Equal(decimal.RequireFromString("36100.5")))
}

func TestSDKMarket_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer server.Close()

	market := NewSDKMarket(Config{BaseURL: server.URL}, server.Client())

	_, err := market.GetKlines(context.Background(), "FOOUSDT", "1d", 30)
	require.Error(t, err)
	assert.Equal(t, retrieval.KindStatus, retrieval.KindOf(err))
	assert.Contains(t, err.Error(), "binance code -1121: Invalid symbol.")

	var re *retrieval.RetrievalError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.StatusCode)
}

func TestSDKMarket_ServerErrorPlainBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream maintenance"))
	}))
	defer server.Close()

	market := NewSDKMarket(Config{BaseURL: server.URL}, server.Client())

	_, err := market.ListInstruments(context.Background())
	var re *retrieval.RetrievalError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, retrieval.KindStatus, re.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, re.StatusCode)
	assert.Contains(t, err.Error(), "upstream maintenance")
}

// TestSDKMarket_GetKlines_Malformed はSDK経由でもRESTと同じ本文を malformed として扱うことを検証します。
func TestSDKMarket_GetKlines_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
	}{
		{"null body", `null`},
		{"object body with 200", `{"code":-1121,"msg":"Invalid symbol."}`},
		{"invalid json", `[[1700000000000, "1"`},
		{"short record", `[[1700000000000, "36000.00", "36500.00", "35800.00", "36400.00", "1234.50"]]`},
		{"null record", `[null]`},
		{"bad open time", `[["yesterday", "1", "1", "1", "1", "1", 0, "0", 0, "0", "0", "0"]]`},
		{"bad number", `[[1700000000000, "abc", "1", "1", "1", "1", 0, "0", 0, "0", "0", "0"]]`},
		{"null price", `[[1700000000000, null, "1", "1", "1", "1", 0, "0", 0, "0", "0", "0"]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newMarketServer(t, exchangeInfoJSON, tt.response)
			market := NewSDKMarket(Config{BaseURL: server.URL}, server.Client())
			rest := NewRESTMarket(Config{BaseURL: server.URL}, server.Client())

			rows, err := market.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
			require.Error(t, err)
			assert.Nil(t, rows)
			assert.Equal(t, retrieval.KindMalformed, retrieval.KindOf(err))

			// 両バックエンドで同じ分類になる
			_, restErr := rest.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
			assert.Equal(t, retrieval.KindOf(restErr), retrieval.KindOf(err))
		})
	}
}

func TestSDKMarket_GetKlines_EmptyArray(t *testing.T) {
	t.Parallel()

	server := newMarketServer(t, exchangeInfoJSON, `[]`)
	market := NewSDKMarket(Config{BaseURL: server.URL}, server.Client())

	rows, err := market.GetKlines(context.Background(), "NEWUSDT", "1d", 30)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClassify_APIErrorWithoutHTTPStatus(t *testing.T) {
	t.Parallel()

	re := classify(opGetKlines, &common.APIError{Code: -1100, Message: "Illegal characters found"})

	assert.Equal(t, retrieval.KindStatus, re.Kind)
	assert.Zero(t, re.StatusCode)
	assert.EqualError(t, re.Err, "binance code -1100: Illegal characters found")
}

func TestSDKMarket_ConnectionRefused(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	market := NewSDKMarket(Config{BaseURL: baseURL}, &http.Client{Timeout: time.Second})

	_, err := market.ListInstruments(context.Background())
	require.Error(t, err)
	assert.Equal(t, retrieval.KindTransport, retrieval.KindOf(err))
}

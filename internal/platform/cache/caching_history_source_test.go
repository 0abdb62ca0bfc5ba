package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pair_dashboard/internal/feature/candles/domain/entity"
)

// mockHistorySource はテスト用のHistorySourceモック実装です。
type mockHistorySource struct {
	getFn func(ctx context.Context, symbol, interval string, limit int) ([]entity.CandleRow, error)
	calls int
}

func (m *mockHistorySource) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]entity.CandleRow, error) {
	m.calls++
	if m.getFn != nil {
		return m.getFn(ctx, symbol, interval, limit)
	}
	return nil, nil
}

func sampleRows() []entity.CandleRow {
	return []entity.CandleRow{
		{
			Timestamp: entity.OpenTime(1700000000000),
			Open:      decimal.RequireFromString("65432.10"),
			High:      decimal.RequireFromString("66000"),
			Low:       decimal.RequireFromString("65000.5"),
			Close:     decimal.RequireFromString("65900"),
			Volume:    decimal.RequireFromString("1234.567"),
		},
	}
}

func TestCachingHistorySource_NilStore(t *testing.T) {
	t.Parallel()

	inner := &mockHistorySource{getFn: func(context.Context, string, string, int) ([]entity.CandleRow, error) {
		return sampleRows(), nil
	}}
	c := NewCachingHistorySource(nil, nil, inner, "")

	_, _ = c.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
	_, _ = c.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
	assert.Equal(t, 2, inner.calls)
	assert.NoError(t, c.PurgeSymbol(context.Background(), "BTCUSDT"))
}

// TestCachingHistorySource_MemoryRoundTrip はキャッシュ経由でも値が変わらないことを検証します。
func TestCachingHistorySource_MemoryRoundTrip(t *testing.T) {
	t.Parallel()

	inner := &mockHistorySource{getFn: func(context.Context, string, string, int) ([]entity.CandleRow, error) {
		return sampleRows(), nil
	}}
	c := NewCachingHistorySource(NewMemoryStore(), nil, inner, "")

	first, err := c.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
	require.NoError(t, err)
	second, err := c.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	require.Len(t, second, 1)
	assert.True(t, first[0].Timestamp.Equal(second[0].Timestamp))
	assert.True(t, second[0].Open.Equal(decimal.RequireFromString("65432.10")))
	assert.True(t, second[0].Volume.Equal(first[0].Volume))
}

// TestCachingHistorySource_KeyedByArguments は引数ごとに別のエントリになることを検証します。
func TestCachingHistorySource_KeyedByArguments(t *testing.T) {
	t.Parallel()

	inner := &mockHistorySource{getFn: func(context.Context, string, string, int) ([]entity.CandleRow, error) {
		return sampleRows(), nil
	}}
	store := NewMemoryStore()
	c := NewCachingHistorySource(store, nil, inner, "")

	_, _ = c.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
	_, _ = c.GetKlines(context.Background(), "ETHUSDT", "1d", 30)
	_, _ = c.GetKlines(context.Background(), "BTCUSDT", "1d", 7)

	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, 3, store.Len())

	require.NoError(t, c.PurgeSymbol(context.Background(), "BTCUSDT"))
	assert.Equal(t, 1, store.Len())
}

func TestCachingHistorySource_EmptyResultCached(t *testing.T) {
	t.Parallel()

	inner := &mockHistorySource{}
	c := NewCachingHistorySource(NewMemoryStore(), nil, inner, "")

	got, err := c.GetKlines(context.Background(), "NEWUSDT", "1d", 30)
	require.NoError(t, err)
	assert.Empty(t, got)
	_, _ = c.GetKlines(context.Background(), "NEWUSDT", "1d", 30)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingHistorySource_ErrorNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("timeout")
	inner := &mockHistorySource{getFn: func(context.Context, string, string, int) ([]entity.CandleRow, error) {
		return nil, boom
	}}
	store := NewMemoryStore()
	c := NewCachingHistorySource(store, nil, inner, "")

	_, err := c.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Len())
}

func TestCachingHistorySource_RedisKeyFormat(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	rows := sampleRows()
	expectedJSON, _ := json.Marshal(rows)
	mock.ExpectGet("candles:BTCUSDT:1d:30").RedisNil()
	mock.ExpectSet("candles:BTCUSDT:1d:30", expectedJSON, time.Hour).SetVal("OK")

	inner := &mockHistorySource{getFn: func(context.Context, string, string, int) ([]entity.CandleRow, error) {
		return rows, nil
	}}
	c := NewCachingHistorySource(NewRedisStore(rdb), FixedTTL(time.Hour), inner, "candles")

	_, err := c.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingHistorySource_RedisHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON, _ := json.Marshal(sampleRows())
	mock.ExpectGet("candles:BTCUSDT:1d:30").SetVal(string(cachedJSON))

	inner := &mockHistorySource{}
	c := NewCachingHistorySource(NewRedisStore(rdb), nil, inner, "")

	got, err := c.GetKlines(context.Background(), "BTCUSDT", "1d", 30)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 0, inner.calls, "inner source should not be called on cache hit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Package usecase はローソク足履歴取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"sort"
	"strings"

	"pair_dashboard/internal/feature/candles/domain/entity"
	"pair_dashboard/internal/shared/retrieval"
)

const (
	// HistoryInterval は取得するローソク足の時間足（日足）です。
	HistoryInterval = "1d"
	// HistoryLimit は1回の取得で返す最大件数（30日分）です。
	HistoryLimit = 30

	// OpFetchHistory はエラーとレポートで使う操作名です。
	OpFetchHistory = "fetch_history"
)

// HistorySource は取引所のkline取得を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type HistorySource interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]entity.CandleRow, error)
}

// HistoryUsecase は1銘柄の直近30日分の日足を取得します。
type HistoryUsecase struct {
	source   HistorySource
	reporter retrieval.Reporter
}

// NewHistoryUsecase はHistoryUsecaseの新しいインスタンスを生成します。
// reporterがnilの場合はslogに出力するレポーターを使用します。
func NewHistoryUsecase(source HistorySource, reporter retrieval.Reporter) *HistoryUsecase {
	if reporter == nil {
		reporter = retrieval.NewLogReporter(nil)
	}
	return &HistoryUsecase{source: source, reporter: reporter}
}

// FetchHistory は指定された銘柄の日足を古い順に最大30件返します。
//
// 失敗した場合はレポーターに1回だけ報告し、空のCandleSeriesと
// *retrieval.RetrievalError を返します。
func (u *HistoryUsecase) FetchHistory(ctx context.Context, symbol string) (entity.CandleSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	series := entity.CandleSeries{Symbol: symbol, Interval: HistoryInterval, Rows: []entity.CandleRow{}}

	if symbol == "" {
		re := retrieval.New(retrieval.KindInvalidSymbol, OpFetchHistory, retrieval.ErrEmptySymbol)
		u.reporter.Report(ctx, re)
		return series, re
	}

	rows, err := u.source.GetKlines(ctx, symbol, HistoryInterval, HistoryLimit)
	if err != nil {
		re := retrieval.As(OpFetchHistory, err).WithSymbol(symbol)
		u.reporter.Report(ctx, re)
		return series, re
	}

	series.Rows = normalize(rows, HistoryLimit)
	return series, nil
}

// normalize は時刻の昇順・重複なし・最大limit件の並びに整えます。
// 既に昇順の入力は順序を変えません。重複した時刻は後から届いた行を採用します。
func normalize(rows []entity.CandleRow, limit int) []entity.CandleRow {
	out := make([]entity.CandleRow, 0, len(rows))
	out = append(out, rows...)

	if !strictlyAscending(out) {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp.Before(out[j].Timestamp)
		})
		dedup := out[:0]
		for _, r := range out {
			if n := len(dedup); n > 0 && dedup[n-1].Timestamp.Equal(r.Timestamp) {
				dedup[n-1] = r
				continue
			}
			dedup = append(dedup, r)
		}
		out = dedup
	}

	// 最新のlimit件を残す
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func strictlyAscending(rows []entity.CandleRow) bool {
	for i := 1; i < len(rows); i++ {
		if !rows[i-1].Timestamp.Before(rows[i].Timestamp) {
			return false
		}
	}
	return true
}

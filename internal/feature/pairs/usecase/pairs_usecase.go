// Package usecase implements the pair catalog fetcher.
package usecase

import (
	"context"

	"pair_dashboard/internal/feature/pairs/domain/entity"
	"pair_dashboard/internal/shared/retrieval"
)

// OpFetchPairs names the catalog operation in errors and reports.
const OpFetchPairs = "fetch_pairs"

// PairSource abstracts the exchange metadata endpoint.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PairSource interface {
	ListInstruments(ctx context.Context) ([]entity.Instrument, error)
}

// PairsUsecase lists the symbols quoted in the settlement currency.
type PairsUsecase struct {
	source   PairSource
	reporter retrieval.Reporter
}

// NewPairsUsecase creates a PairsUsecase. A nil reporter falls back to retrieval.NewLogReporter(nil).
func NewPairsUsecase(source PairSource, reporter retrieval.Reporter) *PairsUsecase {
	if reporter == nil {
		reporter = retrieval.NewLogReporter(nil)
	}
	return &PairsUsecase{source: source, reporter: reporter}
}

// FetchPairs returns the symbols of every instrument whose quote asset is USDT,
// in the order the source delivered them.
//
// Failures never panic past this boundary: they are reported once, and the
// call returns an empty slice together with a *retrieval.RetrievalError.
func (u *PairsUsecase) FetchPairs(ctx context.Context) ([]string, error) {
	instruments, err := u.source.ListInstruments(ctx)
	if err != nil {
		re := retrieval.As(OpFetchPairs, err)
		u.reporter.Report(ctx, re)
		return []string{}, re
	}

	out := make([]string, 0, len(instruments))
	for _, in := range instruments {
		if in.SettlesIn(entity.SettlementCurrency) {
			out = append(out, in.Symbol)
		}
	}
	return out, nil
}

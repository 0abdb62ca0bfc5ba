package retrieval

import (
	"context"
	"log/slog"
)

// Reporter receives every failure absorbed at a fetcher boundary.
type Reporter interface {
	Report(ctx context.Context, err *RetrievalError)
}

// LogReporter reports failures as slog error records.
type LogReporter struct {
	logger *slog.Logger
}

var _ Reporter = (*LogReporter)(nil)

// NewLogReporter returns a LogReporter writing to logger, or to slog.Default() when logger is nil.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

// Report logs err with its kind, operation and symbol as attributes.
func (r *LogReporter) Report(ctx context.Context, err *RetrievalError) {
	attrs := []any{"op", err.Op, "kind", string(err.Kind)}
	if err.Symbol != "" {
		attrs = append(attrs, "symbol", err.Symbol)
	}
	if err.StatusCode != 0 {
		attrs = append(attrs, "status", err.StatusCode)
	}
	if err.Err != nil {
		attrs = append(attrs, "error", err.Err.Error())
	}
	r.logger.ErrorContext(ctx, "market data retrieval failed", attrs...)
}

// Package retrieval defines the error kinds and the reporting side channel
// shared by the pair catalog and candle history fetchers.
package retrieval

import (
	"errors"
	"fmt"
)

// Kind classifies why a retrieval failed.
type Kind string

const (
	// KindTransport covers connection errors, timeouts and cancelled contexts.
	KindTransport Kind = "transport"
	// KindStatus is a non-2xx response from the exchange.
	KindStatus Kind = "status"
	// KindMalformed is a response body that does not match the expected schema.
	KindMalformed Kind = "malformed"
	// KindInvalidSymbol is returned for input that cannot name an instrument at all.
	KindInvalidSymbol Kind = "invalid_symbol"
)

// ErrEmptySymbol is wrapped by KindInvalidSymbol errors for blank input.
var ErrEmptySymbol = errors.New("symbol is empty")

// RetrievalError describes a failed call to the exchange.
type RetrievalError struct {
	Kind       Kind
	Op         string // operation name, e.g. "fetch_pairs"
	Symbol     string // empty for catalog calls
	StatusCode int    // set for KindStatus
	Err        error
}

// New returns a RetrievalError of the given kind.
func New(kind Kind, op string, err error) *RetrievalError {
	return &RetrievalError{Kind: kind, Op: op, Err: err}
}

func (e *RetrievalError) Error() string {
	msg := fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	if e.Symbol != "" {
		msg += " for " + e.Symbol
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (http %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// WithSymbol returns a copy of e scoped to symbol.
func (e *RetrievalError) WithSymbol(symbol string) *RetrievalError {
	cp := *e
	cp.Symbol = symbol
	return &cp
}

// As converts err into a RetrievalError for op. Errors that already carry a
// kind keep it (only Op is rewritten); anything else is treated as a transport
// failure.
func As(op string, err error) *RetrievalError {
	var re *RetrievalError
	if errors.As(err, &re) {
		cp := *re
		cp.Op = op
		return &cp
	}
	return New(KindTransport, op, err)
}

// KindOf returns the kind of err, or "" if err is not a RetrievalError.
func KindOf(err error) Kind {
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

package analytics

import (
	"context"
	"time"

	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/service"
)

// Default lookback windows.
const (
	DefaultPredictionMonths = 6
	DefaultAnomalyDays      = 30
	historyLimit            = 100
	similarityThreshold     = 0.3
)

const fallbackCategory = model.FallbackCategory

// TransactionSource is the slice of the storage contract the engines read
// from.
type TransactionSource interface {
	ListTransactions(ctx context.Context, userID string, f service.TransactionFilter, page service.Page) ([]model.Transaction, int, error)
	RecentDescribedTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error)
}

// Engine computes derived insights over a user's transactions. It holds no
// per-request state; the keyword table is immutable after construction, so
// an Engine is safe for concurrent use.
type Engine struct {
	store    TransactionSource
	keywords KeywordTable
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an analytics engine backed by the given store.
func NewEngine(store TransactionSource, keywords KeywordTable, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		keywords: keywords,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// expensesSince fetches the user's expense transactions in [from, now],
// oldest first.
func (e *Engine) expensesSince(ctx context.Context, userID string, from, to time.Time) ([]model.Transaction, error) {
	// ListTransactions treats To as exclusive; nudge past "now" so
	// transactions stamped at the boundary are included.
	end := to.Add(time.Second)
	txns, _, err := e.store.ListTransactions(ctx, userID, service.TransactionFilter{
		Type: model.TypeExpense,
		From: &from,
		To:   &end,
	}, service.Page{})
	return txns, err
}

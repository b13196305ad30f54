package analytics

import (
	"context"
	"time"

	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/service"
)

// fakeSource is an in-memory TransactionSource for engine tests.
type fakeSource struct {
	txns    []model.Transaction
	history []model.Transaction
}

func (f *fakeSource) ListTransactions(_ context.Context, _ string, fil service.TransactionFilter, _ service.Page) ([]model.Transaction, int, error) {
	var out []model.Transaction
	for _, txn := range f.txns {
		if fil.Type != "" && txn.Type != fil.Type {
			continue
		}
		if fil.From != nil && txn.Date.Before(*fil.From) {
			continue
		}
		if fil.To != nil && !txn.Date.Before(*fil.To) {
			continue
		}
		out = append(out, txn)
	}
	return out, len(out), nil
}

func (f *fakeSource) RecentDescribedTransactions(_ context.Context, _ string, limit int) ([]model.Transaction, error) {
	if limit > 0 && len(f.history) > limit {
		return f.history[:limit], nil
	}
	return f.history, nil
}

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func testEngine(src *fakeSource) *Engine {
	return NewEngine(src, DefaultKeywordTable(), WithClock(func() time.Time { return testNow }))
}

func expense(category string, amount float64, date time.Time) model.Transaction {
	return model.Transaction{
		ID:            "tx-" + date.Format("20060102150405") + category,
		UserID:        "user-1",
		Type:          model.TypeExpense,
		Amount:        amount,
		Category:      category,
		PaymentMethod: model.PaymentCard,
		Date:          date,
	}
}

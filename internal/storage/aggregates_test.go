package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/service"
)

func TestTotals(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "totals@example.com")

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, store, userID, model.TypeIncome, "Salary", 3000, jan)
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 200, jan)
	seedTransaction(t, store, userID, model.TypeExpense, "Transport", 100, jan.AddDate(0, 0, 5))

	totals, err := store.Totals(ctx, userID, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, totals.Income)
	assert.Equal(t, 300.0, totals.Expense)
	assert.Equal(t, totals.Income-totals.Expense, totals.Balance)
}

func TestTotals_Empty(t *testing.T) {
	store := newTestStorage(t)
	userID := seedUser(t, store, "empty@example.com")

	totals, err := store.Totals(context.Background(), userID, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, totals.Income)
	assert.Zero(t, totals.Expense)
	assert.Zero(t, totals.Balance)
}

func TestMonthlyTotals(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "monthly@example.com")

	seedTransaction(t, store, userID, model.TypeExpense, "Food", 50, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 70, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, store, userID, model.TypeIncome, "Salary", 3000, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	monthly, err := store.MonthlyTotals(ctx, userID, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, monthly, 2)

	// Ascending chronological order, same-month rows summed.
	assert.Equal(t, 2025, monthly[0].Year)
	assert.Equal(t, 1, monthly[0].Month)
	assert.Equal(t, model.TypeIncome, monthly[0].Type)
	assert.Equal(t, 3000.0, monthly[0].Total)

	assert.Equal(t, 2, monthly[1].Month)
	assert.Equal(t, model.TypeExpense, monthly[1].Type)
	assert.Equal(t, 120.0, monthly[1].Total)
}

func TestCategoryTotals(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "categories@example.com")

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 80, jan)
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 20, jan)
	seedTransaction(t, store, userID, model.TypeExpense, "Transport", 40, jan)

	categories, err := store.CategoryTotals(ctx, userID, service.TransactionFilter{Type: model.TypeExpense})
	require.NoError(t, err)
	require.Len(t, categories, 2)

	// Descending by total.
	assert.Equal(t, "Food", categories[0].Category)
	assert.Equal(t, 100.0, categories[0].Total)
	assert.Equal(t, "Transport", categories[1].Category)
	assert.Equal(t, 40.0, categories[1].Total)
}

func TestDailyTotals(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "daily@example.com")

	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 10, day1)
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 15, day1.Add(3*time.Hour))
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 20, day2)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	daily, err := store.DailyTotals(ctx, userID, start, start.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, daily, 1, "second day is outside the half-open range")
	assert.Equal(t, 1, daily[0].Day)
	assert.Equal(t, 25.0, daily[0].Total)

	_, err = store.DailyTotals(ctx, userID, start, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestTopExpenseCategories(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "top@example.com")

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 100, jan)
	seedTransaction(t, store, userID, model.TypeExpense, "Transport", 300, jan)
	seedTransaction(t, store, userID, model.TypeExpense, "Shopping", 200, jan)
	seedTransaction(t, store, userID, model.TypeExpense, "Bills", 50, jan)
	seedTransaction(t, store, userID, model.TypeIncome, "Salary", 5000, jan)

	top, err := store.TopExpenseCategories(ctx, userID, jan.AddDate(0, 0, -1), jan.AddDate(0, 0, 1), 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Transport", top[0].Category)
	assert.Equal(t, "Shopping", top[1].Category)
	assert.Equal(t, "Food", top[2].Category)
}

func TestSumExpenses(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "sum@example.com")

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 30, jan)
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 45, jan.AddDate(0, 0, 5))
	seedTransaction(t, store, userID, model.TypeExpense, "Transport", 10, jan)

	total, err := store.SumExpenses(ctx, userID, "Food", jan.AddDate(0, 0, -1), jan.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 75.0, total)

	total, err = store.SumExpenses(ctx, userID, "Rent", jan.AddDate(0, 0, -1), jan.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Zero(t, total)
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/service"
)

func TestTransactionCRUD(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "crud@example.com")

	txn := model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        model.TypeExpense,
		Amount:      42.50,
		Category:    "Food",
		Description: "Lunch",
		Date:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateTransaction(ctx, &txn))
	assert.Equal(t, model.PaymentCash, txn.PaymentMethod, "payment method defaults to cash")
	assert.False(t, txn.CreatedAt.IsZero())

	got, err := store.GetTransaction(ctx, userID, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, got.ID)
	assert.Equal(t, model.TypeExpense, got.Type)
	assert.Equal(t, 42.50, got.Amount)
	assert.Equal(t, "Lunch", got.Description)

	got.Amount = 50
	got.Category = "Groceries"
	require.NoError(t, store.UpdateTransaction(ctx, got))

	updated, err := store.GetTransaction(ctx, userID, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.Amount)
	assert.Equal(t, "Groceries", updated.Category)

	require.NoError(t, store.DeleteTransaction(ctx, userID, txn.ID))
	_, err = store.GetTransaction(ctx, userID, txn.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateTransaction_DuplicateID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "dupe@example.com")

	txn := seedTransaction(t, store, userID, model.TypeExpense, "Food", 10, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	again := txn
	err := store.CreateTransaction(ctx, &again)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestTransactionOwnerScoping(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com")
	bob := seedUser(t, store, "bob@example.com")

	txn := seedTransaction(t, store, alice, model.TypeExpense, "Food", 10, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := store.GetTransaction(ctx, bob, txn.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteTransaction(ctx, bob, txn.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	stolen := txn
	stolen.UserID = bob
	stolen.Amount = 999
	err = store.UpdateTransaction(ctx, &stolen)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Alice's row is untouched.
	got, err := store.GetTransaction(ctx, alice, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Amount)
}

func TestCreateTransaction_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "valid@example.com")

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		txn  model.Transaction
	}{
		{name: "missing user", txn: model.Transaction{ID: "t1", Type: model.TypeExpense, Amount: 5, Category: "Food", Date: date}},
		{name: "bad type", txn: model.Transaction{ID: "t2", UserID: userID, Type: "transfer", Amount: 5, Category: "Food", Date: date}},
		{name: "negative amount", txn: model.Transaction{ID: "t3", UserID: userID, Type: model.TypeExpense, Amount: -5, Category: "Food", Date: date}},
		{name: "missing category", txn: model.Transaction{ID: "t4", UserID: userID, Type: model.TypeExpense, Amount: 5, Date: date}},
		{name: "zero date", txn: model.Transaction{ID: "t5", UserID: userID, Type: model.TypeExpense, Amount: 5, Category: "Food"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := tt.txn
			err := store.CreateTransaction(ctx, &txn)
			var ve *common.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestListTransactions_Filters(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "filters@example.com")

	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	seedTransaction(t, store, userID, model.TypeExpense, "Food", 20, jan)
	seedTransaction(t, store, userID, model.TypeExpense, "Transport", 15, feb)
	seedTransaction(t, store, userID, model.TypeIncome, "Salary", 3000, mar)

	t.Run("no filter", func(t *testing.T) {
		txns, total, err := store.ListTransactions(ctx, userID, service.TransactionFilter{}, service.Page{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, txns, 3)
		// Newest first.
		assert.Equal(t, "Salary", txns[0].Category)
		assert.Equal(t, "Food", txns[2].Category)
	})

	t.Run("by type", func(t *testing.T) {
		txns, total, err := store.ListTransactions(ctx, userID, service.TransactionFilter{Type: model.TypeExpense}, service.Page{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, txns, 2)
	})

	t.Run("by category", func(t *testing.T) {
		txns, total, err := store.ListTransactions(ctx, userID, service.TransactionFilter{Category: "Transport"}, service.Page{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, txns, 1)
		assert.Equal(t, 15.0, txns[0].Amount)
	})

	t.Run("date range excludes To", func(t *testing.T) {
		txns, total, err := store.ListTransactions(ctx, userID, service.TransactionFilter{From: &jan, To: &mar}, service.Page{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, txns, 2)
		assert.Equal(t, "Transport", txns[0].Category)
	})

	t.Run("search matches category", func(t *testing.T) {
		_, total, err := store.ListTransactions(ctx, userID, service.TransactionFilter{Search: "sal"}, service.Page{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})
}

func TestListTransactions_Pagination(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "pages@example.com")

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedTransaction(t, store, userID, model.TypeExpense, "Food", float64(i+1), base.AddDate(0, 0, i))
	}

	page1, total, err := store.ListTransactions(ctx, userID, service.TransactionFilter{}, service.Page{Number: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, 5.0, page1[0].Amount)

	page3, total, err := store.ListTransactions(ctx, userID, service.TransactionFilter{}, service.Page{Number: 3, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page3, 1)
	assert.Equal(t, 1.0, page3[0].Amount)
}

func TestRecentDescribedTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "recent@example.com")

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	described := model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        model.TypeExpense,
		Amount:      12,
		Category:    "Food",
		Description: "coffee",
		Date:        base,
	}
	require.NoError(t, store.CreateTransaction(ctx, &described))
	seedTransaction(t, store, userID, model.TypeExpense, "Food", 8, base.AddDate(0, 0, 1))

	txns, err := store.RecentDescribedTransactions(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "coffee", txns[0].Description)
}

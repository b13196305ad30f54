package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
)

func TestUpsertBudget(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "budgets@example.com")

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	budget := model.Budget{
		UserID:    userID,
		Category:  "Food",
		Period:    model.PeriodMonthly,
		Amount:    500,
		StartDate: start,
	}
	require.NoError(t, store.UpsertBudget(ctx, &budget))
	require.NotEmpty(t, budget.ID)
	firstID := budget.ID

	// Same (category, period, start) replaces the amount, not the row.
	replacement := model.Budget{
		UserID:    userID,
		Category:  "Food",
		Period:    model.PeriodMonthly,
		Amount:    650,
		StartDate: start,
	}
	require.NoError(t, store.UpsertBudget(ctx, &replacement))
	assert.Equal(t, firstID, replacement.ID, "upsert keeps the original identity")

	budgets, err := store.ListBudgets(ctx, userID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, 650.0, budgets[0].Amount)

	// A different period is a separate budget.
	weekly := model.Budget{
		UserID:    userID,
		Category:  "Food",
		Period:    model.PeriodWeekly,
		Amount:    100,
		StartDate: start,
	}
	require.NoError(t, store.UpsertBudget(ctx, &weekly))

	budgets, err = store.ListBudgets(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, budgets, 2)
}

func TestUpsertBudget_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "budgetvalid@example.com")

	err := store.UpsertBudget(ctx, &model.Budget{
		UserID:    userID,
		Category:  "Food",
		Period:    "yearly",
		Amount:    100,
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	var ve *common.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDeleteBudget(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "budgetdel@example.com")
	other := seedUser(t, store, "budgetother@example.com")

	budget := model.Budget{
		UserID:    userID,
		Category:  "Food",
		Period:    model.PeriodMonthly,
		Amount:    500,
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.UpsertBudget(ctx, &budget))

	assert.ErrorIs(t, store.DeleteBudget(ctx, other, budget.ID), common.ErrNotFound)
	require.NoError(t, store.DeleteBudget(ctx, userID, budget.ID))
	assert.ErrorIs(t, store.DeleteBudget(ctx, userID, budget.ID), common.ErrNotFound)
}

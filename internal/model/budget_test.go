package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodRange_Monthly(t *testing.T) {
	ref := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)

	start, end := PeriodRange(PeriodMonthly, ref)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestPeriodRange_Weekly(t *testing.T) {
	// 2025-06-18 is a Wednesday; the week starts on Sunday the 15th.
	ref := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)

	start, end := PeriodRange(PeriodWeekly, ref)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC), end)

	// A Sunday anchors its own week.
	sunday := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	start, _ = PeriodRange(PeriodWeekly, sunday)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
}

func TestValidEnums(t *testing.T) {
	assert.True(t, TypeIncome.Valid())
	assert.True(t, TypeExpense.Valid())
	assert.False(t, TransactionType("transfer").Valid())

	assert.True(t, PaymentWallet.Valid())
	assert.False(t, PaymentMethod("check").Valid())

	assert.True(t, PeriodWeekly.Valid())
	assert.False(t, BudgetPeriod("yearly").Valid())

	assert.True(t, AccountInvestment.Valid())
	assert.False(t, AccountType("offshore").Valid())

	assert.True(t, WalletStripe.Valid())
	assert.False(t, WalletType("venmo").Valid())
}

func TestCategoryOrFallback(t *testing.T) {
	txn := Transaction{Category: "Food"}
	assert.Equal(t, "Food", txn.CategoryOrFallback())

	txn.Category = ""
	assert.Equal(t, FallbackCategory, txn.CategoryOrFallback())
}

// Package model defines the core domain types shared across the application.
package model

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	// TypeIncome marks a transaction that increases the user's balance.
	TypeIncome TransactionType = "income"
	// TypeExpense marks a transaction that decreases the user's balance.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// PaymentMethod describes how a transaction was paid.
type PaymentMethod string

// Known payment methods.
const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentBank   PaymentMethod = "bank"
	PaymentWallet PaymentMethod = "wallet"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBank, PaymentWallet:
		return true
	}
	return false
}

// FallbackCategory is used when no category can be determined.
const FallbackCategory = "Other"

// Transaction is a single dated monetary event owned by exactly one user.
type Transaction struct {
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Type          TransactionType `json:"type"`
	Category      string          `json:"category"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Description   string          `json:"description,omitempty"`
	Amount        float64         `json:"amount"`
}

// CategoryOrFallback returns the recorded category, or the fallback label
// when none was set.
func (t *Transaction) CategoryOrFallback() string {
	if t.Category == "" {
		return FallbackCategory
	}
	return t.Category
}

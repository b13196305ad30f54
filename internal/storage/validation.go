package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction checks the invariants a transaction must hold before
// it touches the database.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.UserID == "" {
		return common.NewValidationError("userId", "is required")
	}
	if !txn.Type.Valid() {
		return common.NewValidationError("type", "must be income or expense")
	}
	if txn.Amount < 0 {
		return common.NewValidationError("amount", "must not be negative")
	}
	if txn.Category == "" {
		return common.NewValidationError("category", "is required")
	}
	if txn.PaymentMethod != "" && !txn.PaymentMethod.Valid() {
		return common.NewValidationError("paymentMethod", "must be cash, card, bank, or wallet")
	}
	if txn.Date.IsZero() {
		return common.NewValidationError("date", "is required")
	}
	return nil
}

// validateBudget checks a budget before persistence.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.UserID == "" {
		return common.NewValidationError("userId", "is required")
	}
	if budget.Category == "" {
		return common.NewValidationError("category", "is required")
	}
	if !budget.Period.Valid() {
		return common.NewValidationError("period", "must be monthly or weekly")
	}
	if budget.Amount < 0 {
		return common.NewValidationError("amount", "must not be negative")
	}
	if budget.StartDate.IsZero() {
		return common.NewValidationError("startDate", "is required")
	}
	return nil
}

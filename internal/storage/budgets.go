package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/calloway/mintleaf/internal/model"
	"github.com/google/uuid"
)

// UpsertBudget creates a budget, or replaces the amount of the existing one
// keyed by (user, category, period, start date).
func (s *SQLiteStorage) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	now := time.Now().UTC()
	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = now
	}
	budget.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (
			id, user_id, category, period, amount, start_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, category, period, start_date)
		DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at
	`,
		budget.ID,
		budget.UserID,
		budget.Category,
		string(budget.Period),
		budget.Amount,
		budget.StartDate.UTC(),
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	// The conflict path keeps the original row's id; read it back so the
	// caller always sees the persisted identity.
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM budgets
		WHERE user_id = ? AND category = ? AND period = ? AND start_date = ?
	`, budget.UserID, budget.Category, string(budget.Period), budget.StartDate.UTC())
	if err := row.Scan(&budget.ID, &budget.CreatedAt); err != nil {
		return fmt.Errorf("failed to read back budget: %w", err)
	}
	return nil
}

// ListBudgets returns the user's budgets, newest first.
func (s *SQLiteStorage) ListBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, period, amount, start_date, created_at, updated_at
		FROM budgets
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		var period string
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &period, &b.Amount, &b.StartDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		b.Period = model.BudgetPeriod(period)
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes a budget, scoped to its owner.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM budgets WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return requireRowAffected(res)
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/service"
)

// Totals sums the user's transactions by type within the filter. Empty
// result sets yield zero totals, not errors.
func (s *SQLiteStorage) Totals(ctx context.Context, userID string, f service.TransactionFilter) (model.Totals, error) {
	if err := validateContext(ctx); err != nil {
		return model.Totals{}, err
	}

	where, args := transactionWhere(userID, f)
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, SUM(amount) AS total
		FROM transactions `+where+`
		GROUP BY type
	`, args...)
	if err != nil {
		return model.Totals{}, fmt.Errorf("failed to query totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals model.Totals
	for rows.Next() {
		var txType string
		var total float64
		if err := rows.Scan(&txType, &total); err != nil {
			return model.Totals{}, fmt.Errorf("failed to scan totals: %w", err)
		}
		switch model.TransactionType(txType) {
		case model.TypeIncome:
			totals.Income = total
		case model.TypeExpense:
			totals.Expense = total
		}
	}
	if err := rows.Err(); err != nil {
		return model.Totals{}, err
	}

	totals.Balance = totals.Income - totals.Expense
	return totals, nil
}

// MonthlyTotals groups the user's transactions by (year, month, type)
// within the filter, in ascending chronological order.
func (s *SQLiteStorage) MonthlyTotals(ctx context.Context, userID string, f service.TransactionFilter) ([]model.MonthlyTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	where, args := transactionWhere(userID, f)
	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(strftime('%Y', date) AS INTEGER) AS y,
		       CAST(strftime('%m', date) AS INTEGER) AS m,
		       type,
		       SUM(amount) AS total
		FROM transactions `+where+`
		GROUP BY y, m, type
		ORDER BY y, m
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var monthly []model.MonthlyTotal
	for rows.Next() {
		var row model.MonthlyTotal
		var txType string
		if err := rows.Scan(&row.Year, &row.Month, &txType, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		row.Type = model.TransactionType(txType)
		monthly = append(monthly, row)
	}
	return monthly, rows.Err()
}

// CategoryTotals groups the user's transactions by (category, type) within
// the filter, descending by total.
func (s *SQLiteStorage) CategoryTotals(ctx context.Context, userID string, f service.TransactionFilter) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	where, args := transactionWhere(userID, f)
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, type, SUM(amount) AS total
		FROM transactions `+where+`
		GROUP BY category, type
		ORDER BY total DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCategoryTotals(rows)
}

// DailyTotals groups the user's transactions by (year, month, day, type)
// within [start, end), in ascending chronological order.
func (s *SQLiteStorage) DailyTotals(ctx context.Context, userID string, start, end time.Time) ([]model.DailyTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(strftime('%Y', date) AS INTEGER) AS y,
		       CAST(strftime('%m', date) AS INTEGER) AS m,
		       CAST(strftime('%d', date) AS INTEGER) AS d,
		       type,
		       SUM(amount) AS total
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		GROUP BY y, m, d, type
		ORDER BY y, m, d
	`, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var daily []model.DailyTotal
	for rows.Next() {
		var row model.DailyTotal
		var txType string
		if err := rows.Scan(&row.Year, &row.Month, &row.Day, &txType, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		row.Type = model.TransactionType(txType)
		daily = append(daily, row)
	}
	return daily, rows.Err()
}

// TopExpenseCategories returns the highest-spend expense categories within
// [start, end), descending by total.
func (s *SQLiteStorage) TopExpenseCategories(ctx context.Context, userID string, start, end time.Time, limit int) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 3
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, type, SUM(amount) AS total
		FROM transactions
		WHERE user_id = ? AND type = 'expense' AND date >= ? AND date < ?
		GROUP BY category
		ORDER BY total DESC
		LIMIT ?
	`, userID, start.UTC(), end.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCategoryTotals(rows)
}

// SumExpenses totals the user's expense transactions in a category within
// [start, end). Used for budget spend calculation.
func (s *SQLiteStorage) SumExpenses(ctx context.Context, userID, category string, start, end time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var total float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = ? AND type = 'expense' AND category = ?
		  AND date >= ? AND date < ?
	`, userID, category, start.UTC(), end.UTC()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return total, nil
}

func scanCategoryTotals(rows *sql.Rows) ([]model.CategoryTotal, error) {
	var categories []model.CategoryTotal
	for rows.Next() {
		var row model.CategoryTotal
		var txType string
		if err := rows.Scan(&row.Category, &txType, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		row.Type = model.TransactionType(txType)
		categories = append(categories, row)
	}
	return categories, rows.Err()
}

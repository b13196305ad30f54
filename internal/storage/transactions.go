package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/service"
)

// CreateTransaction inserts a new transaction.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	now := time.Now().UTC()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now
	if txn.PaymentMethod == "" {
		txn.PaymentMethod = model.PaymentCash
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (
			id, user_id, type, amount, category, payment_method,
			description, date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.ID,
		txn.UserID,
		string(txn.Type),
		txn.Amount,
		txn.Category,
		string(txn.PaymentMethod),
		txn.Description,
		txn.Date.UTC(),
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		// Statement imports reuse upstream IDs; a PK collision means the
		// transaction is already present.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, txn.ID)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateTransaction replaces the mutable fields of a transaction, scoped to
// its owner. Returns common.ErrNotFound when no owned row matches.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(txn.ID, "id"); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	txn.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, amount = ?, category = ?, payment_method = ?,
		    description = ?, date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`,
		string(txn.Type),
		txn.Amount,
		txn.Category,
		string(txn.PaymentMethod),
		txn.Description,
		txn.Date.UTC(),
		txn.UpdatedAt,
		txn.ID,
		txn.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteTransaction removes a transaction, scoped to its owner.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireRowAffected(res)
}

// GetTransaction retrieves a single transaction, scoped to its owner.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, userID, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, type, amount, category, payment_method,
		       description, date, created_at, updated_at
		FROM transactions
		WHERE id = ? AND user_id = ?
	`, id, userID)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns a page of the user's transactions matching the
// filter, newest first, along with the total match count.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, userID string, f service.TransactionFilter, page service.Page) ([]model.Transaction, int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, 0, err
	}

	where, args := transactionWhere(userID, f)

	var total int
	countQuery := "SELECT COUNT(*) FROM transactions " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT id, user_id, type, amount, category, payment_method,
		       description, date, created_at, updated_at
		FROM transactions ` + where + `
		ORDER BY date DESC, created_at DESC`
	if page.Size > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Size, page.Offset())
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	transactions, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// RecentDescribedTransactions returns up to limit of the user's most recent
// transactions that carry a non-empty description.
func (s *SQLiteStorage) RecentDescribedTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, category, payment_method,
		       description, date, created_at, updated_at
		FROM transactions
		WHERE user_id = ? AND description != ''
		ORDER BY date DESC, created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query described transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// transactionWhere builds the WHERE clause shared by the list and
// aggregation queries. From is inclusive, To exclusive.
func transactionWhere(userID string, f service.TransactionFilter) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{userID}

	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.PaymentMethod != "" {
		clauses = append(clauses, "payment_method = ?")
		args = append(args, string(f.PaymentMethod))
	}
	if f.From != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		clauses = append(clauses, "date < ?")
		args = append(args, f.To.UTC())
	}
	if f.Search != "" {
		clauses = append(clauses, "(description LIKE ? OR category LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var txn model.Transaction
	var txType, method string
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txType,
		&txn.Amount,
		&txn.Category,
		&method,
		&txn.Description,
		&txn.Date,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn.Type = model.TransactionType(txType)
	txn.PaymentMethod = model.PaymentMethod(method)
	return &txn, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}

// requireRowAffected converts a zero-row update or delete into ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

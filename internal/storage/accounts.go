package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/service"
)

// CreateBankAccount inserts a new bank account.
func (s *SQLiteStorage) CreateBankAccount(ctx context.Context, account *model.BankAccount) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.IsActive = true

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bank_accounts (
			id, user_id, bank_name, account_type, account_number, routing_number,
			balance, currency, is_active, plaid_item_id, access_token, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
	`,
		account.ID,
		account.UserID,
		account.BankName,
		string(account.AccountType),
		account.AccountNumber,
		account.RoutingNumber,
		account.Balance,
		account.Currency,
		account.PlaidItemID,
		account.AccessToken,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bank account: %w", err)
	}
	return nil
}

// ListBankAccounts returns the user's active bank accounts.
func (s *SQLiteStorage) ListBankAccounts(ctx context.Context, userID string) ([]model.BankAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, bank_name, account_type, account_number, routing_number,
		       balance, currency, is_active, last_sync, plaid_item_id, access_token, created_at
		FROM bank_accounts
		WHERE user_id = ? AND is_active = 1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.BankAccount
	for rows.Next() {
		account, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// GetBankAccount retrieves one active bank account, scoped to its owner.
func (s *SQLiteStorage) GetBankAccount(ctx context.Context, userID, id string) (*model.BankAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, bank_name, account_type, account_number, routing_number,
		       balance, currency, is_active, last_sync, plaid_item_id, access_token, created_at
		FROM bank_accounts
		WHERE id = ? AND user_id = ? AND is_active = 1
	`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank account: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, common.ErrNotFound
	}
	return scanBankAccount(rows)
}

// UpdateBankAccount updates the mutable fields of a bank account.
func (s *SQLiteStorage) UpdateBankAccount(ctx context.Context, account *model.BankAccount) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE bank_accounts
		SET bank_name = ?, account_type = ?, balance = ?, currency = ?
		WHERE id = ? AND user_id = ? AND is_active = 1
	`,
		account.BankName,
		string(account.AccountType),
		account.Balance,
		account.Currency,
		account.ID,
		account.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank account: %w", err)
	}
	return requireRowAffected(res)
}

// DeactivateBankAccount soft-deletes a bank account.
func (s *SQLiteStorage) DeactivateBankAccount(ctx context.Context, userID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE bank_accounts SET is_active = 0
		WHERE id = ? AND user_id = ? AND is_active = 1
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate bank account: %w", err)
	}
	return requireRowAffected(res)
}

// MarkBankAccountSynced records a completed sync and the refreshed balance.
func (s *SQLiteStorage) MarkBankAccountSynced(ctx context.Context, userID, id string, balance float64, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE bank_accounts SET balance = ?, last_sync = ?
		WHERE id = ? AND user_id = ? AND is_active = 1
	`, balance, at.UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark bank account synced: %w", err)
	}
	return requireRowAffected(res)
}

func scanBankAccount(rows *sql.Rows) (*model.BankAccount, error) {
	var account model.BankAccount
	var accountType string
	var lastSync sql.NullTime
	err := rows.Scan(
		&account.ID,
		&account.UserID,
		&account.BankName,
		&accountType,
		&account.AccountNumber,
		&account.RoutingNumber,
		&account.Balance,
		&account.Currency,
		&account.IsActive,
		&lastSync,
		&account.PlaidItemID,
		&account.AccessToken,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bank account: %w", err)
	}
	account.AccountType = model.AccountType(accountType)
	if lastSync.Valid {
		t := lastSync.Time
		account.LastSync = &t
	}
	return &account, nil
}

// CreateWallet inserts a new digital wallet.
func (s *SQLiteStorage) CreateWallet(ctx context.Context, wallet *model.DigitalWallet) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if wallet == nil {
		return fmt.Errorf("%w: wallet", ErrNilParameter)
	}

	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now().UTC()
	}
	wallet.IsActive = true

	var expiry any
	if wallet.TokenExpiry != nil {
		expiry = wallet.TokenExpiry.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO digital_wallets (
			id, user_id, wallet_type, wallet_name, wallet_id, balance, currency,
			is_active, upi_id, paypal_email, access_token, refresh_token, token_expiry, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?, ?)
	`,
		wallet.ID,
		wallet.UserID,
		string(wallet.WalletType),
		wallet.WalletName,
		wallet.WalletID,
		wallet.Balance,
		wallet.Currency,
		wallet.UPIID,
		wallet.PayPalEmail,
		wallet.AccessToken,
		wallet.RefreshToken,
		expiry,
		wallet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert wallet: %w", err)
	}
	return nil
}

// ListWallets returns the user's active digital wallets.
func (s *SQLiteStorage) ListWallets(ctx context.Context, userID string) ([]model.DigitalWallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, wallet_type, wallet_name, wallet_id, balance, currency,
		       is_active, last_sync, upi_id, paypal_email, access_token, refresh_token,
		       token_expiry, created_at
		FROM digital_wallets
		WHERE user_id = ? AND is_active = 1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wallets []model.DigitalWallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *wallet)
	}
	return wallets, rows.Err()
}

// GetWallet retrieves one active wallet, scoped to its owner.
func (s *SQLiteStorage) GetWallet(ctx context.Context, userID, id string) (*model.DigitalWallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, wallet_type, wallet_name, wallet_id, balance, currency,
		       is_active, last_sync, upi_id, paypal_email, access_token, refresh_token,
		       token_expiry, created_at
		FROM digital_wallets
		WHERE id = ? AND user_id = ? AND is_active = 1
	`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, common.ErrNotFound
	}
	return scanWallet(rows)
}

// UpdateWallet updates the mutable fields of a wallet.
func (s *SQLiteStorage) UpdateWallet(ctx context.Context, wallet *model.DigitalWallet) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if wallet == nil {
		return fmt.Errorf("%w: wallet", ErrNilParameter)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE digital_wallets
		SET wallet_name = ?, balance = ?, currency = ?
		WHERE id = ? AND user_id = ? AND is_active = 1
	`,
		wallet.WalletName,
		wallet.Balance,
		wallet.Currency,
		wallet.ID,
		wallet.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return requireRowAffected(res)
}

// DeactivateWallet soft-deletes a wallet.
func (s *SQLiteStorage) DeactivateWallet(ctx context.Context, userID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE digital_wallets SET is_active = 0
		WHERE id = ? AND user_id = ? AND is_active = 1
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate wallet: %w", err)
	}
	return requireRowAffected(res)
}

// MarkWalletSynced records a completed sync, optionally rotating the stored
// OAuth2 token.
func (s *SQLiteStorage) MarkWalletSynced(ctx context.Context, userID, id string, token *service.WalletToken, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var res sql.Result
	var err error
	if token != nil {
		var expiry any
		if token.Expiry != nil {
			expiry = token.Expiry.UTC()
		}
		res, err = s.db.ExecContext(ctx, `
			UPDATE digital_wallets
			SET last_sync = ?, access_token = ?, refresh_token = ?, token_expiry = ?
			WHERE id = ? AND user_id = ? AND is_active = 1
		`, at.UTC(), token.AccessToken, token.RefreshToken, expiry, id, userID)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE digital_wallets SET last_sync = ?
			WHERE id = ? AND user_id = ? AND is_active = 1
		`, at.UTC(), id, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to mark wallet synced: %w", err)
	}
	return requireRowAffected(res)
}

func scanWallet(rows *sql.Rows) (*model.DigitalWallet, error) {
	var wallet model.DigitalWallet
	var walletType string
	var lastSync, tokenExpiry sql.NullTime
	err := rows.Scan(
		&wallet.ID,
		&wallet.UserID,
		&walletType,
		&wallet.WalletName,
		&wallet.WalletID,
		&wallet.Balance,
		&wallet.Currency,
		&wallet.IsActive,
		&lastSync,
		&wallet.UPIID,
		&wallet.PayPalEmail,
		&wallet.AccessToken,
		&wallet.RefreshToken,
		&tokenExpiry,
		&wallet.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}
	wallet.WalletType = model.WalletType(walletType)
	if lastSync.Valid {
		t := lastSync.Time
		wallet.LastSync = &t
	}
	if tokenExpiry.Valid {
		t := tokenExpiry.Time
		wallet.TokenExpiry = &t
	}
	return &wallet, nil
}

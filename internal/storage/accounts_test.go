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

func seedBankAccount(t *testing.T, store *SQLiteStorage, userID string) model.BankAccount {
	t.Helper()

	account := model.BankAccount{
		ID:            uuid.NewString(),
		UserID:        userID,
		BankName:      "First National",
		AccountType:   model.AccountChecking,
		AccountNumber: "6789",
		Currency:      "USD",
		Balance:       1200,
	}
	require.NoError(t, store.CreateBankAccount(context.Background(), &account))
	return account
}

func seedWallet(t *testing.T, store *SQLiteStorage, userID string) model.DigitalWallet {
	t.Helper()

	wallet := model.DigitalWallet{
		ID:          uuid.NewString(),
		UserID:      userID,
		WalletType:  model.WalletPayPal,
		WalletName:  "My PayPal",
		WalletID:    "pp-123",
		Currency:    "USD",
		PayPalEmail: "wallet@example.com",
	}
	require.NoError(t, store.CreateWallet(context.Background(), &wallet))
	return wallet
}

func TestBankAccountLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "bank@example.com")

	account := seedBankAccount(t, store, userID)
	assert.True(t, account.IsActive)

	got, err := store.GetBankAccount(ctx, userID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "First National", got.BankName)
	assert.Equal(t, model.AccountChecking, got.AccountType)
	assert.Nil(t, got.LastSync)

	got.BankName = "Second National"
	got.Balance = 900
	require.NoError(t, store.UpdateBankAccount(ctx, got))

	updated, err := store.GetBankAccount(ctx, userID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second National", updated.BankName)
	assert.Equal(t, 900.0, updated.Balance)

	// Soft delete hides the account from reads but keeps the row.
	require.NoError(t, store.DeactivateBankAccount(ctx, userID, account.ID))

	_, err = store.GetBankAccount(ctx, userID, account.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	accounts, err := store.ListBankAccounts(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	err = store.DeactivateBankAccount(ctx, userID, account.ID)
	assert.ErrorIs(t, err, common.ErrNotFound, "already deactivated")
}

func TestMarkBankAccountSynced(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "banksync@example.com")

	account := seedBankAccount(t, store, userID)
	syncedAt := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.MarkBankAccountSynced(ctx, userID, account.ID, 2500, syncedAt))

	got, err := store.GetBankAccount(ctx, userID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, got.Balance)
	require.NotNil(t, got.LastSync)
	assert.True(t, got.LastSync.Equal(syncedAt))
}

func TestWalletLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "wallet@example.com")

	wallet := seedWallet(t, store, userID)
	assert.True(t, wallet.IsActive)

	got, err := store.GetWallet(ctx, userID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WalletPayPal, got.WalletType)
	assert.Equal(t, "wallet@example.com", got.PayPalEmail)

	got.WalletName = "Renamed"
	got.Balance = 55
	require.NoError(t, store.UpdateWallet(ctx, got))

	updated, err := store.GetWallet(ctx, userID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.WalletName)
	assert.Equal(t, 55.0, updated.Balance)

	require.NoError(t, store.DeactivateWallet(ctx, userID, wallet.ID))

	wallets, err := store.ListWallets(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestMarkWalletSynced(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "walletsync@example.com")

	wallet := seedWallet(t, store, userID)
	syncedAt := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("without token", func(t *testing.T) {
		require.NoError(t, store.MarkWalletSynced(ctx, userID, wallet.ID, nil, syncedAt))

		got, err := store.GetWallet(ctx, userID, wallet.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastSync)
		assert.True(t, got.LastSync.Equal(syncedAt))
		assert.Empty(t, got.AccessToken)
	})

	t.Run("token rotation", func(t *testing.T) {
		expiry := syncedAt.Add(time.Hour)
		token := &service.WalletToken{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			Expiry:       &expiry,
		}
		require.NoError(t, store.MarkWalletSynced(ctx, userID, wallet.ID, token, syncedAt.Add(time.Minute)))

		got, err := store.GetWallet(ctx, userID, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-access", got.AccessToken)
		assert.Equal(t, "new-refresh", got.RefreshToken)
		require.NotNil(t, got.TokenExpiry)
		assert.True(t, got.TokenExpiry.Equal(expiry))
	})
}

func TestAccountOwnerScoping(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	alice := seedUser(t, store, "acctalice@example.com")
	bob := seedUser(t, store, "acctbob@example.com")

	account := seedBankAccount(t, store, alice)
	wallet := seedWallet(t, store, alice)

	_, err := store.GetBankAccount(ctx, bob, account.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetWallet(ctx, bob, wallet.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.DeactivateBankAccount(ctx, bob, account.ID), common.ErrNotFound)
	assert.ErrorIs(t, store.DeactivateWallet(ctx, bob, wallet.ID), common.ErrNotFound)
}

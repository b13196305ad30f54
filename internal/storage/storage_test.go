package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway/mintleaf/internal/model"
)

// newTestStorage returns a migrated in-memory store that is closed when the
// test finishes.
func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// seedUser inserts a user and returns its ID.
func seedUser(t *testing.T, store *SQLiteStorage, email string) string {
	t.Helper()

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
		Currency:     "USD",
		Locale:       "en-US",
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user.ID
}

// seedTransaction inserts a transaction for the user and returns it.
func seedTransaction(t *testing.T, store *SQLiteStorage, userID string, txType model.TransactionType, category string, amount float64, date time.Time) model.Transaction {
	t.Helper()

	txn := model.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		Category:      category,
		PaymentMethod: model.PaymentCash,
		Date:          date,
	}
	require.NoError(t, store.CreateTransaction(context.Background(), &txn))
	return txn
}

func TestNewSQLiteStorage_Validation(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again must be a no-op.
	require.NoError(t, store.Migrate(ctx))
}

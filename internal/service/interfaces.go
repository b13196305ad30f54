// Package service defines the interfaces between the application's layers.
package service

import (
	"context"
	"time"

	"github.com/calloway/mintleaf/internal/model"
)

// TransactionFilter narrows a transaction query. Zero values mean "no
// restriction". From is inclusive, To is exclusive.
type TransactionFilter struct {
	From          *time.Time
	To            *time.Time
	Type          model.TransactionType
	Category      string
	PaymentMethod model.PaymentMethod
	Search        string
}

// Page selects a slice of a result set. A zero Page means "everything".
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip for this page.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// TransactionStore is the persistence contract for transactions, including
// the grouped aggregation queries the stats endpoints are built on. All
// operations are scoped to a single owner.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	GetTransaction(ctx context.Context, userID, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, userID string, f TransactionFilter, page Page) ([]model.Transaction, int, error)
	RecentDescribedTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error)

	Totals(ctx context.Context, userID string, f TransactionFilter) (model.Totals, error)
	MonthlyTotals(ctx context.Context, userID string, f TransactionFilter) ([]model.MonthlyTotal, error)
	CategoryTotals(ctx context.Context, userID string, f TransactionFilter) ([]model.CategoryTotal, error)
	DailyTotals(ctx context.Context, userID string, start, end time.Time) ([]model.DailyTotal, error)
	TopExpenseCategories(ctx context.Context, userID string, start, end time.Time, limit int) ([]model.CategoryTotal, error)
	SumExpenses(ctx context.Context, userID, category string, start, end time.Time) (float64, error)
}

// BudgetStore is the persistence contract for budgets.
type BudgetStore interface {
	UpsertBudget(ctx context.Context, budget *model.Budget) error
	ListBudgets(ctx context.Context, userID string) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
}

// UserStore is the persistence contract for user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserSettings(ctx context.Context, id, currency, locale string) (*model.User, error)
}

// AccountStore is the persistence contract for linked bank accounts and
// digital wallets. Deletes are soft: records are deactivated, not removed.
type AccountStore interface {
	CreateBankAccount(ctx context.Context, account *model.BankAccount) error
	ListBankAccounts(ctx context.Context, userID string) ([]model.BankAccount, error)
	GetBankAccount(ctx context.Context, userID, id string) (*model.BankAccount, error)
	UpdateBankAccount(ctx context.Context, account *model.BankAccount) error
	DeactivateBankAccount(ctx context.Context, userID, id string) error
	MarkBankAccountSynced(ctx context.Context, userID, id string, balance float64, at time.Time) error

	CreateWallet(ctx context.Context, wallet *model.DigitalWallet) error
	ListWallets(ctx context.Context, userID string) ([]model.DigitalWallet, error)
	GetWallet(ctx context.Context, userID, id string) (*model.DigitalWallet, error)
	UpdateWallet(ctx context.Context, wallet *model.DigitalWallet) error
	DeactivateWallet(ctx context.Context, userID, id string) error
	MarkWalletSynced(ctx context.Context, userID, id string, token *WalletToken, at time.Time) error
}

// WalletToken is the OAuth2 credential triple persisted per wallet.
type WalletToken struct {
	Expiry       *time.Time
	AccessToken  string
	RefreshToken string
}

// Storage is the full persistence contract implemented by the database layer.
type Storage interface {
	TransactionStore
	BudgetStore
	UserStore
	AccountStore

	Migrate(ctx context.Context) error
	Close() error
}

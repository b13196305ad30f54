// Package plaid wraps the Plaid API for bank account synchronization.
package plaid

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
	"github.com/plaid/plaid-go/v20/plaid"
)

// Config holds Plaid API credentials. Access tokens are per linked
// account and supplied on each call.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("plaid client ID is required: %w", common.ErrMissingConfig)
	}
	if c.Secret == "" {
		return fmt.Errorf("plaid secret is required: %w", common.ErrMissingConfig)
	}
	switch c.Environment {
	case "sandbox", "production":
		return nil
	case "":
		return fmt.Errorf("plaid environment is required: %w", common.ErrMissingConfig)
	default:
		return fmt.Errorf("invalid plaid environment %q: %w", c.Environment, common.ErrInvalidConfig)
	}
}

// Client fetches transactions and balances for linked bank accounts.
type Client struct {
	client    *plaid.APIClient
	logger    *slog.Logger
	retryOpts common.RetryOptions
}

// NewClient creates a Plaid client for the configured environment.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)

	switch cfg.Environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	}

	return &Client{
		client: plaid.NewAPIClient(configuration),
		logger: slog.Default().With("component", "plaid"),
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// FetchTransactions pulls transactions for a linked account within the
// given date range, mapped into our transaction model. Categories are
// left blank so the caller can run its own categorization.
func (c *Client) FetchTransactions(ctx context.Context, accessToken, userID string, startDate, endDate time.Time) ([]model.Transaction, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if accessToken == "" {
		return nil, common.ErrSyncNotConfigured
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	c.logger.Info("fetching transactions from Plaid",
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	var all []plaid.Transaction
	offset := int32(0)
	const pageSize = int32(500) // Plaid's max page size

	for {
		var batch []plaid.Transaction

		retryErr := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				accessToken,
				startDate.Format("2006-01-02"),
				endDate.Format("2006-01-02"),
			)
			options := plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			}
			request.SetOptions(options)

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				return wrapPlaidError(err, "failed to fetch transactions")
			}

			batch = resp.GetTransactions()
			c.logger.Debug("fetched transaction batch",
				"count", len(batch),
				"offset", offset,
				"total", resp.GetTotalTransactions())
			return nil
		}, c.retryOpts)

		if retryErr != nil {
			return nil, retryErr
		}

		all = append(all, batch...)
		if len(batch) < int(pageSize) {
			break
		}
		offset += pageSize
	}

	transactions := make([]model.Transaction, 0, len(all))
	for _, pt := range all {
		tx, ok := c.mapTransaction(pt, userID)
		if !ok {
			continue
		}
		transactions = append(transactions, tx)
	}

	c.logger.Info("fetched all transactions", "count", len(transactions))
	return transactions, nil
}

// FetchBalance returns the summed current balance across the linked
// account's sub-accounts.
func (c *Client) FetchBalance(ctx context.Context, accessToken string) (float64, error) {
	if ctx == nil {
		return 0, fmt.Errorf("context cannot be nil")
	}
	if accessToken == "" {
		return 0, common.ErrSyncNotConfigured
	}

	var accounts []plaid.AccountBase
	retryErr := common.WithRetry(ctx, func() error {
		request := plaid.NewAccountsGetRequest(accessToken)
		resp, _, err := c.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
		if err != nil {
			return wrapPlaidError(err, "failed to fetch accounts")
		}
		accounts = resp.GetAccounts()
		return nil
	}, c.retryOpts)

	if retryErr != nil {
		return 0, retryErr
	}

	var total float64
	for _, account := range accounts {
		if current, ok := account.Balances.GetCurrentOk(); ok && current != nil {
			total += *current
		}
	}
	return total, nil
}

// mapTransaction converts a Plaid transaction into our model. Plaid
// reports debits as positive amounts and credits as negative ones.
func (c *Client) mapTransaction(pt plaid.Transaction, userID string) (model.Transaction, bool) {
	amount := pt.GetAmount()
	var txType model.TransactionType
	switch {
	case amount > 0:
		txType = model.TypeExpense
	case amount < 0:
		txType = model.TypeIncome
		amount = -amount
	default:
		return model.Transaction{}, false
	}

	date, err := time.Parse("2006-01-02", pt.GetDate())
	if err != nil {
		c.logger.Error("failed to parse transaction date", "date", pt.GetDate(), "error", err)
		date = time.Now().UTC()
	}

	description := pt.GetMerchantName()
	if description == "" {
		description = pt.GetName()
	}

	return model.Transaction{
		ID:            pt.GetTransactionId(),
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		PaymentMethod: model.PaymentBank,
		Description:   cleanMerchantName(description),
		Date:          date,
	}, true
}

// cleanMerchantName normalizes merchant descriptions so categorization
// sees consistent text across imports.
func cleanMerchantName(name string) string {
	parts := strings.Fields(name)
	if len(parts) > 1 {
		// Trailing long digit runs are usually processor reference numbers.
		last := parts[len(parts)-1]
		if len(last) > 5 && isAllDigits(last) {
			parts = parts[:len(parts)-1]
		}
	}
	name = strings.Join(parts, " ")

	suffixes := []string{" LLC", " INC", " CORP", " CO", " LTD"}
	upper := strings.ToUpper(name)
	for _, suffix := range suffixes {
		if strings.HasSuffix(upper, suffix) {
			name = name[:len(name)-len(suffix)]
			upper = upper[:len(upper)-len(suffix)]
		}
	}

	return strings.TrimSpace(name)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// wrapPlaidError surfaces Plaid's structured error details when present.
func wrapPlaidError(err error, msg string) error {
	if plaidErr, convErr := plaid.ToPlaidError(err); convErr == nil {
		return fmt.Errorf("plaid API error: %s - %s", plaidErr.ErrorCode, plaidErr.ErrorMessage)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

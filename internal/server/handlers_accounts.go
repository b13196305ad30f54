package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
)

// syncLookback bounds how far back a Plaid sync pulls transactions.
const syncLookback = 30 * 24 * time.Hour

func (s *Server) handleListBankAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListBankAccounts(r.Context(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if accounts == nil {
		accounts = []model.BankAccount{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

type bankAccountRequest struct {
	BankName      string  `json:"bankName"`
	AccountType   string  `json:"accountType"`
	AccountNumber string  `json:"accountNumber"`
	RoutingNumber string  `json:"routingNumber"`
	Currency      string  `json:"currency"`
	Balance       float64 `json:"balance"`
}

func (s *Server) handleCreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req bankAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.BankName == "" || req.AccountType == "" || req.AccountNumber == "" {
		WriteError(w, http.StatusBadRequest, "Bank name, account type, and account number are required")
		return
	}
	accountType := model.AccountType(req.AccountType)
	if !accountType.Valid() {
		WriteError(w, http.StatusBadRequest, "Invalid account type")
		return
	}

	// Only the last four digits are ever persisted.
	number := req.AccountNumber
	if len(number) > 4 {
		number = number[len(number)-4:]
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	account := model.BankAccount{
		ID:            uuid.NewString(),
		UserID:        UserID(r.Context()),
		BankName:      req.BankName,
		AccountType:   accountType,
		AccountNumber: number,
		RoutingNumber: req.RoutingNumber,
		Currency:      currency,
		Balance:       req.Balance,
		IsActive:      true,
	}
	if err := s.store.CreateBankAccount(r.Context(), &account); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, account)
}

func (s *Server) handleUpdateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req bankAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	account, err := s.store.GetBankAccount(ctx, UserID(ctx), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Bank account not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}

	if req.BankName != "" {
		account.BankName = req.BankName
	}
	if req.AccountType != "" {
		accountType := model.AccountType(req.AccountType)
		if !accountType.Valid() {
			WriteError(w, http.StatusBadRequest, "Invalid account type")
			return
		}
		account.AccountType = accountType
	}
	if req.Currency != "" {
		account.Currency = req.Currency
	}
	account.Balance = req.Balance

	if err := s.store.UpdateBankAccount(ctx, account); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteBankAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.DeactivateBankAccount(ctx, UserID(ctx), r.PathValue("id")); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Bank account not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Bank account deleted successfully"})
}

func (s *Server) handleSyncBankAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)

	account, err := s.store.GetBankAccount(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Bank account not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}

	now := s.now().UTC()
	balance := account.Balance

	// Without Plaid credentials linked to this account, sync only
	// refreshes the timestamp.
	if s.plaid != nil && account.AccessToken != "" {
		balance, err = s.plaid.FetchBalance(ctx, account.AccessToken)
		if err != nil {
			writeServiceError(w, s.logger, err)
			return
		}

		transactions, err := s.plaid.FetchTransactions(ctx, account.AccessToken, userID, now.Add(-syncLookback), now)
		if err != nil {
			writeServiceError(w, s.logger, err)
			return
		}
		for i := range transactions {
			txn := transactions[i]
			if txn.Category == "" {
				category, catErr := s.engine.Categorize(ctx, userID, txn.Description)
				if catErr == nil {
					txn.Category = category
				}
			}
			if err := s.store.CreateTransaction(ctx, &txn); err != nil {
				// Already-imported transactions keep their IDs; skip them.
				if errors.Is(err, common.ErrDuplicateEntry) {
					continue
				}
				writeServiceError(w, s.logger, err)
				return
			}
		}
	}

	if err := s.store.MarkBankAccountSynced(ctx, userID, account.ID, balance, now); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"message": "Sync completed", "lastSync": now})
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.store.ListWallets(r.Context(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if wallets == nil {
		wallets = []model.DigitalWallet{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"wallets": wallets})
}

type walletRequest struct {
	WalletType  string  `json:"walletType"`
	WalletName  string  `json:"walletName"`
	WalletID    string  `json:"walletId"`
	Currency    string  `json:"currency"`
	UPIID       string  `json:"upiId"`
	PayPalEmail string  `json:"paypalEmail"`
	Balance     float64 `json:"balance"`
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.WalletType == "" || req.WalletName == "" || req.WalletID == "" {
		WriteError(w, http.StatusBadRequest, "Wallet type, name, and ID are required")
		return
	}
	walletType := model.WalletType(req.WalletType)
	if !walletType.Valid() {
		WriteError(w, http.StatusBadRequest, "Invalid wallet type")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	dw := model.DigitalWallet{
		ID:          uuid.NewString(),
		UserID:      UserID(r.Context()),
		WalletType:  walletType,
		WalletName:  req.WalletName,
		WalletID:    req.WalletID,
		Currency:    currency,
		UPIID:       req.UPIID,
		PayPalEmail: req.PayPalEmail,
		Balance:     req.Balance,
		IsActive:    true,
	}
	if err := s.store.CreateWallet(r.Context(), &dw); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, dw)
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	dw, err := s.store.GetWallet(ctx, UserID(ctx), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Digital wallet not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}

	if req.WalletName != "" {
		dw.WalletName = req.WalletName
	}
	if req.Currency != "" {
		dw.Currency = req.Currency
	}
	dw.Balance = req.Balance

	if err := s.store.UpdateWallet(ctx, dw); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, dw)
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.DeactivateWallet(ctx, UserID(ctx), r.PathValue("id")); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Digital wallet not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Digital wallet deleted successfully"})
}

func (s *Server) handleSyncWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)

	dw, err := s.store.GetWallet(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Digital wallet not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}

	token, err := s.wallets.Refresh(ctx, dw)
	if err != nil && !errors.Is(err, common.ErrSyncNotConfigured) {
		writeServiceError(w, s.logger, err)
		return
	}

	now := s.now().UTC()
	if err := s.store.MarkWalletSynced(ctx, userID, dw.ID, token, now); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"message": "Sync completed", "lastSync": now})
}

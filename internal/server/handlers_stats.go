package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/service"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 365
	defaultPageSize  = 10
	topCategoryCount = 3
)

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func statsFilter(r *http.Request) service.TransactionFilter {
	q := r.URL.Query()
	f := service.TransactionFilter{
		Type:          model.TransactionType(q.Get("type")),
		Category:      q.Get("category"),
		PaymentMethod: model.PaymentMethod(q.Get("paymentMethod")),
		Search:        q.Get("search"),
	}
	if t, ok := parseDate(q.Get("from")); ok {
		f.From = &t
	}
	if t, ok := parseDate(q.Get("to")); ok {
		f.To = &t
	}
	return f
}

// monthlyRollupStart is the first day of the month 11 months back, so
// the rollup always covers a trailing 12-month window.
func (s *Server) monthlyRollupStart() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)
	f := statsFilter(r)
	f.Search = ""

	totals, err := s.store.Totals(ctx, userID, f)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	// The rollup window start overrides any caller-supplied lower bound.
	monthlyFilter := f
	since := s.monthlyRollupStart()
	monthlyFilter.From = &since

	monthly, err := s.store.MonthlyTotals(ctx, userID, monthlyFilter)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	categories, err := s.store.CategoryTotals(ctx, userID, f)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	if monthly == nil {
		monthly = []model.MonthlyTotal{}
	}
	if categories == nil {
		categories = []model.CategoryTotal{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"totals":     totals,
		"monthly":    monthly,
		"categories": categories,
	})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)

	days := defaultTrendDays
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	days = max(1, min(maxTrendDays, days))

	now := s.now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(days - 1))
	windowEnd := end.Add(24 * time.Hour)

	daily, err := s.store.DailyTotals(ctx, userID, start, windowEnd)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	topCategories, err := s.store.TopExpenseCategories(ctx, userID, start, windowEnd, topCategoryCount)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	if daily == nil {
		daily = []model.DailyTotal{}
	}
	if topCategories == nil {
		topCategories = []model.CategoryTotal{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"range":         map[string]time.Time{"start": start, "end": end},
		"daily":         daily,
		"topCategories": topCategories,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	since := s.monthlyRollupStart()

	monthly, err := s.store.MonthlyTotals(ctx, UserID(ctx), service.TransactionFilter{From: &since})
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	png, err := s.renderer.MonthlyOverview(monthly)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if png == nil {
		WriteError(w, http.StatusNotFound, "No data to chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := s.store.CategoryTotals(ctx, UserID(ctx), statsFilter(r))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	png, err := s.renderer.CategoryBreakdown(categories)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if png == nil {
		WriteError(w, http.StatusNotFound, "No data to chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page := service.Page{Number: 1, Size: defaultPageSize}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		page.Number = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		page.Size = v
	}

	transactions, total, err := s.store.ListTransactions(ctx, UserID(ctx), statsFilter(r), page)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"total":        total,
		"page":         page.Number,
		"pages":        int(math.Ceil(float64(total) / float64(page.Size))),
	})
}

type transactionRequest struct {
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
}

func (req *transactionRequest) apply(txn *model.Transaction, now time.Time) {
	txn.Type = model.TransactionType(req.Type)
	txn.Amount = req.Amount
	txn.Category = req.Category
	txn.Description = req.Description
	txn.PaymentMethod = model.PaymentMethod(req.PaymentMethod)
	if txn.PaymentMethod == "" {
		txn.PaymentMethod = model.PaymentCash
	}
	if t, ok := parseDate(req.Date); ok {
		txn.Date = t
	} else if txn.Date.IsZero() {
		txn.Date = now
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type == "" || req.Amount == 0 || req.Category == "" {
		WriteError(w, http.StatusBadRequest, "Type, amount, and category are required")
		return
	}

	txn := model.Transaction{
		ID:     uuid.NewString(),
		UserID: UserID(r.Context()),
	}
	req.apply(&txn, s.now().UTC())

	if err := s.store.CreateTransaction(r.Context(), &txn); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	txn, err := s.store.GetTransaction(ctx, UserID(ctx), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}

	req.apply(txn, s.now().UTC())
	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.DeleteTransaction(ctx, UserID(ctx), r.PathValue("id")); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

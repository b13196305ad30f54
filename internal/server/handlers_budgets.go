package server

import (
	"errors"
	"net/http"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)

	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	for i := range budgets {
		b := &budgets[i]
		start, end := model.PeriodRange(b.Period, b.StartDate)
		spent, err := s.store.SumExpenses(ctx, userID, b.Category, start, end)
		if err != nil {
			writeServiceError(w, s.logger, err)
			return
		}
		b.Spent = spent
		b.Remaining = max(0, b.Amount-spent)
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"budgets": budgets})
}

type budgetRequest struct {
	Category string  `json:"category"`
	Period   string  `json:"period"`
	Amount   float64 `json:"amount"`
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category == "" || req.Amount == 0 {
		WriteError(w, http.StatusBadRequest, "Category and amount are required")
		return
	}

	period := model.BudgetPeriod(req.Period)
	if period == "" {
		period = model.PeriodMonthly
	}

	// The budget anchors at the current period's start, so repeated
	// posts within one period hit the same upsert key.
	start, _ := model.PeriodRange(period, s.now().UTC())
	budget := model.Budget{
		UserID:    UserID(r.Context()),
		Category:  req.Category,
		Period:    period,
		Amount:    req.Amount,
		StartDate: start,
	}

	if err := s.store.UpsertBudget(r.Context(), &budget); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.DeleteBudget(ctx, UserID(ctx), r.PathValue("id")); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Budget not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted"})
}

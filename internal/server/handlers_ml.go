package server

import (
	"net/http"
	"strconv"

	"github.com/calloway/mintleaf/internal/analytics"
	"github.com/calloway/mintleaf/internal/model"
)

type categorizeRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Description == "" {
		WriteError(w, http.StatusBadRequest, "Description is required")
		return
	}

	category, err := s.engine.Categorize(r.Context(), UserID(r.Context()), req.Description)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"category": category})
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	months := analytics.DefaultPredictionMonths
	if v := r.URL.Query().Get("months"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			months = n
		}
	}

	predictions, err := s.engine.PredictExpenses(r.Context(), UserID(r.Context()), months)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if predictions == nil {
		predictions = map[string]model.Prediction{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"predictions": predictions})
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	days := analytics.DefaultAnomalyDays
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	anomalies, err := s.engine.DetectAnomalies(r.Context(), UserID(r.Context()), days)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if anomalies == nil {
		anomalies = []model.Anomaly{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"anomalies": anomalies})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.engine.SavingSuggestions(r.Context(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleCombinedInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.engine.CombinedInsights(r.Context(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, insights)
}

func (s *Server) handleOverspendInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.engine.OverspendInsights(r.Context(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	if insights == nil {
		insights = []model.OverspendInsight{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

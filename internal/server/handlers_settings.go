package server

import (
	"net/http"
)

type settingsResponse struct {
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	resp := settingsResponse{Currency: user.Currency, Locale: user.Locale}
	if resp.Currency == "" {
		resp.Currency = "USD"
	}
	if resp.Locale == "" {
		resp.Locale = "en-US"
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsResponse
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.store.UpdateUserSettings(r.Context(), UserID(r.Context()), req.Currency, req.Locale)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, settingsResponse{Currency: user.Currency, Locale: user.Locale})
}

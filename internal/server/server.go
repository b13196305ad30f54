// Package server exposes the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/calloway/mintleaf/internal/analytics"
	"github.com/calloway/mintleaf/internal/auth"
	"github.com/calloway/mintleaf/internal/charts"
	"github.com/calloway/mintleaf/internal/config"
	"github.com/calloway/mintleaf/internal/plaid"
	"github.com/calloway/mintleaf/internal/service"
	"github.com/calloway/mintleaf/internal/wallet"
)

// Server wires storage, auth, and the analytics engines into the HTTP
// API.
type Server struct {
	store    service.Storage
	auth     *auth.Manager
	engine   *analytics.Engine
	renderer *charts.Renderer
	plaid    *plaid.Client // nil when Plaid is not configured
	wallets  *wallet.Refresher
	cfg      config.ServerConfig
	logger   *slog.Logger
	now      func() time.Time
}

// Options carries the optional collaborators for New.
type Options struct {
	Plaid   *plaid.Client
	Wallets *wallet.Refresher
}

// New builds a Server. The uploads directory is created if missing.
func New(cfg config.ServerConfig, store service.Storage, authMgr *auth.Manager, engine *analytics.Engine, opts Options) (*Server, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	wallets := opts.Wallets
	if wallets == nil {
		wallets = wallet.NewRefresher(nil)
	}

	return &Server{
		store:    store,
		auth:     authMgr,
		engine:   engine,
		renderer: charts.NewRenderer(),
		plaid:    opts.Plaid,
		wallets:  wallets,
		cfg:      cfg,
		logger:   slog.Default().With("component", "server"),
		now:      time.Now,
	}, nil
}

// Handler assembles the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.UploadDir))))

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	authed := Authenticate(s.auth)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(h))
	}

	handle("GET /api/auth/me", s.handleMe)

	handle("GET /api/settings", s.handleGetSettings)
	handle("PUT /api/settings", s.handleUpdateSettings)

	handle("GET /api/stats", s.handleStats)
	handle("GET /api/stats/trends", s.handleTrends)
	handle("GET /api/stats/chart.png", s.handleChart)
	handle("GET /api/stats/categories.png", s.handleCategoryChart)
	handle("GET /api/stats/transactions", s.handleListTransactions)
	handle("POST /api/stats/transactions", s.handleCreateTransaction)
	handle("PUT /api/stats/transactions/{id}", s.handleUpdateTransaction)
	handle("DELETE /api/stats/transactions/{id}", s.handleDeleteTransaction)

	handle("GET /api/budgets", s.handleListBudgets)
	handle("POST /api/budgets", s.handleUpsertBudget)
	handle("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	handle("GET /api/insights", s.handleOverspendInsights)

	handle("GET /api/bank-accounts", s.handleListBankAccounts)
	handle("POST /api/bank-accounts", s.handleCreateBankAccount)
	handle("PUT /api/bank-accounts/{id}", s.handleUpdateBankAccount)
	handle("DELETE /api/bank-accounts/{id}", s.handleDeleteBankAccount)
	handle("POST /api/bank-accounts/{id}/sync", s.handleSyncBankAccount)

	handle("GET /api/digital-wallets", s.handleListWallets)
	handle("POST /api/digital-wallets", s.handleCreateWallet)
	handle("PUT /api/digital-wallets/{id}", s.handleUpdateWallet)
	handle("DELETE /api/digital-wallets/{id}", s.handleDeleteWallet)
	handle("POST /api/digital-wallets/{id}/sync", s.handleSyncWallet)

	handle("POST /api/ml/categorize", s.handleCategorize)
	handle("GET /api/ml/predictions", s.handlePredictions)
	handle("GET /api/ml/anomalies", s.handleAnomalies)
	handle("GET /api/ml/suggestions", s.handleSuggestions)
	handle("GET /api/ml/insights", s.handleCombinedInsights)

	var h http.Handler = mux
	h = CORS(s.cfg.AllowedOrigin)(h)
	h = Logger(s.logger)(h)
	h = Recovery(s.logger)(h)
	return h
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

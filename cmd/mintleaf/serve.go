package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calloway/mintleaf/internal/analytics"
	"github.com/calloway/mintleaf/internal/auth"
	"github.com/calloway/mintleaf/internal/config"
	"github.com/calloway/mintleaf/internal/plaid"
	"github.com/calloway/mintleaf/internal/server"
	"github.com/calloway/mintleaf/internal/storage"
	"github.com/calloway/mintleaf/internal/wallet"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	authMgr, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	engine := analytics.NewEngine(store, analytics.DefaultKeywordTable())

	opts := server.Options{
		Wallets: wallet.NewRefresher(cfg.Wallets),
	}
	if cfg.PlaidEnabled() {
		plaidClient, plaidErr := plaid.NewClient(cfg.Plaid)
		if plaidErr != nil {
			return plaidErr
		}
		opts.Plaid = plaidClient
		slog.Info("Plaid sync enabled", "environment", cfg.Plaid.Environment)
	}

	srv, err := server.New(cfg.Server, store, authMgr, engine, opts)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

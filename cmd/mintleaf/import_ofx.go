package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/calloway/mintleaf/internal/analytics"
	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/config"
	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/ofx"
	"github.com/calloway/mintleaf/internal/storage"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import financial transactions from OFX or QFX (Quicken) files exported
from your bank. Transactions without a category are run through the
auto-categorizer before being saved.

Examples:
  # Import a single file
  mintleaf import --user 4f7c... ~/Downloads/chase_jan_2024.qfx

  # Import everything in a directory
  mintleaf import --user 4f7c... ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("user", "", "ID of the user to import transactions for (required)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}
	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// The user must exist before we attach transactions to them.
	if _, err := store.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("no user with ID %s", userID)
		}
		return err
	}

	slog.Info("🌿 Importing OFX files...",
		"file_count", len(allFiles),
		"dry_run", dryRun)

	parser := ofx.NewParser()
	seen := make(map[string]bool)
	var transactions []model.Transaction

	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		parsed, err := parser.ParseFile(ctx, f, userID)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}

		added := 0
		for _, tx := range parsed {
			if seen[tx.ID] {
				continue
			}
			seen[tx.ID] = true
			transactions = append(transactions, tx)
			added++
		}

		slog.Info("Processed file",
			"file", filepath.Base(filePath),
			"transactions_found", len(parsed),
			"added", added,
			"duplicates", len(parsed)-added)
	}

	if len(transactions) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	engine := analytics.NewEngine(store, analytics.DefaultKeywordTable())

	bar := progressbar.NewOptions(len(transactions),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing transactions..."),
	)

	imported, skipped := 0, 0
	for i := range transactions {
		tx := transactions[i]
		if tx.Category == "" {
			category, catErr := engine.Categorize(ctx, userID, tx.Description)
			if catErr != nil {
				return fmt.Errorf("categorization failed: %w", catErr)
			}
			tx.Category = category
		}

		if !dryRun {
			if err := store.CreateTransaction(ctx, &tx); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					skipped++
					_ = bar.Add(1)
					continue
				}
				return fmt.Errorf("failed to save transaction %s: %w", tx.ID, err)
			}
		}
		imported++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	if dryRun {
		slog.Info("🔍 Dry run complete - no data saved", "would_import", imported)
		return nil
	}

	slog.Info("✅ Import complete",
		"imported", imported,
		"already_present", skipped)
	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/mverdeja/footfall/internal/cli"
	"github.com/mverdeja/footfall/internal/config"
	"github.com/mverdeja/footfall/internal/csvio"
	"github.com/mverdeja/footfall/internal/model"
	"github.com/mverdeja/footfall/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const saveBatchSize = 100

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Archive a transaction CSV feed to the local database",
		Long: `Parse a transaction CSV feed and store the normalized records in the
local SQLite archive. Records are deduplicated by content hash, so
re-importing an overlapping feed is safe.`,
		RunE: runArchiveImport,
	}

	addSourceFlags(cmd)
	cmd.Flags().String("db", "", "Database path (default: $HOME/.config/footfall/footfall.db)")
	cmd.Flags().Bool("dry-run", false, "Parse and summarize without saving")

	_ = viper.BindPFlag("import.db", cmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runArchiveImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	bindSourceFlags(cmd)

	src, err := newSource()
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Importing transaction feed"))

	text, err := src.FetchCSV(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch CSV: %w", err)
	}

	result, err := csvio.Parse(ctx, strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Parsed %d transactions (%d rows dropped)",
		len(result.Transactions), result.Dropped)))

	if viper.GetBool("import.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		displayImportSummary(result.Transactions)
		return nil
	}

	store, err := storage.NewSQLiteStorage(archivePath("import.db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "error", closeErr)
		}
	}()

	before, err := store.CountTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}

	bar := progressbar.NewOptions(len(result.Transactions),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Saving transactions..."),
	)

	for start := 0; start < len(result.Transactions); start += saveBatchSize {
		end := min(start+saveBatchSize, len(result.Transactions))
		if err := store.SaveTransactions(ctx, result.Transactions[start:end]); err != nil {
			return fmt.Errorf("failed to save transactions: %w", err)
		}
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	after, err := store.CountTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}

	slog.Info(cli.FormatSuccess("✓ Import complete!"),
		"new", after-before,
		"duplicates", len(result.Transactions)-(after-before),
		"total", after)
	displayImportSummary(result.Transactions)

	return nil
}

// archivePath resolves the database path for the command's own db key,
// falling back to the standard config-directory location.
func archivePath(viperKey string) string {
	if path := viper.GetString(viperKey); path != "" {
		return config.ExpandPath(path)
	}
	return config.DefaultDatabasePath()
}

func displayImportSummary(transactions []model.Transaction) {
	if len(transactions) == 0 {
		return
	}

	totalAmount := 0.0
	businesses := make(map[string]int)
	users := make(map[string]struct{})

	for _, tx := range transactions {
		totalAmount += tx.Amount
		businesses[model.DecomposeMerchant(tx.Merchant).Business]++
		users[tx.Email] = struct{}{}
	}

	content := fmt.Sprintf(`Transactions: %d
Total amount: $%.2f
Unique users: %d
Businesses: %d

Top businesses:
`, len(transactions), totalAmount, len(users), len(businesses))

	for i, b := range topBusinesses(businesses, 5) {
		content += fmt.Sprintf("%d. %s (%d transactions)\n", i+1, b.name, b.count)
	}

	slog.Info(cli.RenderBox("Import Summary", content))
}

type businessCount struct {
	name  string
	count int
}

func topBusinesses(businesses map[string]int, limit int) []businessCount {
	counts := make([]businessCount, 0, len(businesses))
	for name, count := range businesses {
		counts = append(counts, businessCount{name: name, count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}

	return counts
}

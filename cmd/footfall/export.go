package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mverdeja/footfall/internal/cli"
	"github.com/mverdeja/footfall/internal/engine"
	"github.com/mverdeja/footfall/internal/service"
	"github.com/mverdeja/footfall/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export archived transactions as CSV",
		Long: `Read transactions back from the local SQLite archive and write them out
in the canonical CSV form, optionally restricted to a date range.`,
		RunE: runExport,
	}

	cmd.Flags().String("db", "", "Database path (default: $HOME/.config/footfall/footfall.db)")
	cmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("start-date", "s", "", "Only export transactions on or after this date (format: 2006-01-02)")
	cmd.Flags().StringP("end-date", "e", "", "Only export transactions on or before this date (format: 2006-01-02)")

	_ = viper.BindPFlag("export.db", cmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("export.out", cmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("export.start_date", cmd.Flags().Lookup("start-date"))
	_ = viper.BindPFlag("export.end_date", cmd.Flags().Lookup("end-date"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filter, err := exportFilter()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(archivePath("export.db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "error", closeErr)
		}
	}()

	transactions, err := store.GetTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to read transactions: %w", err)
	}

	eng := engine.New()
	eng.LoadTransactions(transactions)

	out := os.Stdout
	if path := viper.GetString("export.out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				slog.Warn("Failed to close output file", "error", closeErr)
			}
		}()
		out = f
	}

	if err := eng.ExportCSV(out); err != nil {
		return fmt.Errorf("failed to export CSV: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Exported %d transactions", len(transactions))))
	return nil
}

func exportFilter() (service.TransactionFilter, error) {
	var filter service.TransactionFilter

	if s := viper.GetString("export.start_date"); s != "" {
		start, err := time.Parse("2006-01-02", s)
		if err != nil {
			return filter, fmt.Errorf("invalid start date format: %w", err)
		}
		filter.StartDate = &start
	}
	if e := viper.GetString("export.end_date"); e != "" {
		end, err := time.Parse("2006-01-02", e)
		if err != nil {
			return filter, fmt.Errorf("invalid end date format: %w", err)
		}
		filter.EndDate = &end
	}

	return filter, nil
}

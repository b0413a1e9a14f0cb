package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mverdeja/footfall/internal/cli"
	"github.com/mverdeja/footfall/internal/common"
	"github.com/mverdeja/footfall/internal/config"
	"github.com/mverdeja/footfall/internal/engine"
	"github.com/mverdeja/footfall/internal/metrics"
	"github.com/mverdeja/footfall/internal/model"
	"github.com/mverdeja/footfall/internal/service"
	"github.com/mverdeja/footfall/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute and print a metrics report",
		Long: `Load a transaction CSV feed, compute the monthly metric series for the
selected business and location, and print period comparisons and charts.

Without an explicit date range the report covers the 30 days ending at the
latest transaction, compared against the 30 days before that.`,
		RunE: runReport,
	}

	addSourceFlags(cmd)
	addFilterFlags(cmd)
	cmd.Flags().Bool("charts", true, "Render bar charts for the monthly series")
	_ = viper.BindPFlag("report.charts", cmd.Flags().Lookup("charts"))

	return cmd
}

// addSourceFlags registers the CSV feed flags shared by the data-loading
// commands. The viper keys are bound at run time by bindSourceFlags so
// that the executed command's flags win when several commands share a
// key.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Path to a transaction CSV file")
	cmd.Flags().String("url", "", "HTTP endpoint serving the transaction CSV")
	cmd.Flags().String("token", "", "Bearer token for the CSV endpoint")
}

func bindSourceFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("source.file", cmd.Flags().Lookup("file"))
	_ = viper.BindPFlag("source.url", cmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("source.token", cmd.Flags().Lookup("token"))
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("business", "b", model.All, "Business to report on (\"all\" for every business)")
	cmd.Flags().StringP("location", "l", model.All, "Location within the business (\"all\" for every location)")
	cmd.Flags().String("current-start", "", "Start of the current period (format: 2006-01-02)")
	cmd.Flags().String("current-end", "", "End of the current period (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 0, "Report on the last N days instead of an explicit range")
	cmd.Flags().IntP("window", "w", 1, "Returning-user lookback window in months (0 disables)")
	cmd.Flags().Int("first-time-threshold", 1, "Minimum days since first visit to count as first-time")
}

func bindFilterFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("filter.business", cmd.Flags().Lookup("business"))
	_ = viper.BindPFlag("filter.location", cmd.Flags().Lookup("location"))
	_ = viper.BindPFlag("filter.current_start", cmd.Flags().Lookup("current-start"))
	_ = viper.BindPFlag("filter.current_end", cmd.Flags().Lookup("current-end"))
	_ = viper.BindPFlag("filter.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("filter.window", cmd.Flags().Lookup("window"))
	_ = viper.BindPFlag("filter.first_time_threshold", cmd.Flags().Lookup("first-time-threshold"))
}

// newSource builds the transaction source from configuration, preferring
// a local file over the HTTP endpoint.
func newSource() (service.TransactionSource, error) {
	if file := viper.GetString("source.file"); file != "" {
		return source.NewFileSource(config.ExpandPath(file)), nil
	}
	if url := viper.GetString("source.url"); url != "" {
		return source.NewEndpointSource(url, viper.GetString("source.token")), nil
	}
	return nil, fmt.Errorf("%w: set --file or --url", common.ErrMissingConfig)
}

// buildFilterContext assembles the recompute parameters from the bound
// filter.* configuration keys.
func buildFilterContext() (model.FilterContext, error) {
	fc := model.NewFilterContext()
	fc.Business = viper.GetString("filter.business")
	fc.Location = viper.GetString("filter.location")

	if w := viper.GetInt("filter.window"); w >= 0 {
		fc.ReturningWindow = w
	} else {
		return fc, fmt.Errorf("%w: window must be non-negative", common.ErrInvalidConfig)
	}
	if t := viper.GetInt("filter.first_time_threshold"); t >= 0 {
		fc.FirstTimeThresholdDays = t
	} else {
		return fc, fmt.Errorf("%w: first-time threshold must be non-negative", common.ErrInvalidConfig)
	}

	startStr := viper.GetString("filter.current_start")
	endStr := viper.GetString("filter.current_end")
	days := viper.GetInt("filter.days")

	switch {
	case startStr != "" && endStr != "":
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return fc, fmt.Errorf("invalid current-start: %w", err)
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return fc, fmt.Errorf("invalid current-end: %w", err)
		}
		if end.Before(start) {
			return fc, fmt.Errorf("%w: current-end is before current-start", common.ErrInvalidConfig)
		}
		r := model.NewDateRange(start, end)
		fc.Current = &r
	case startStr != "" || endStr != "":
		return fc, fmt.Errorf("%w: current-start and current-end must be set together", common.ErrInvalidConfig)
	case days > 0:
		r := metrics.RangeEndingAt(time.Now(), days)
		fc.Current = &r
	case days < 0:
		return fc, fmt.Errorf("%w: days must be non-negative", common.ErrInvalidConfig)
	}

	return fc, nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	bindSourceFlags(cmd)
	bindFilterFlags(cmd)

	src, err := newSource()
	if err != nil {
		return err
	}

	fc, err := buildFilterContext()
	if err != nil {
		return err
	}

	eng := engine.New()
	stats, err := eng.LoadFrom(ctx, src)
	if err != nil {
		return err
	}
	slog.Info("Loaded transaction feed",
		"rows", stats.Rows,
		"transactions", stats.Transactions,
		"dropped", stats.Dropped)

	bundle, err := eng.Recompute(fc)
	if err != nil {
		return err
	}

	title := "Footfall Report"
	if fc.Business != model.All {
		title = fmt.Sprintf("Footfall Report: %s", fc.Business)
		if fc.Location != model.All {
			title += " / " + fc.Location
		}
	}

	fmt.Println(cli.FormatTitle(title))
	fmt.Println(cli.RenderBox("Period Comparison", cli.RenderSummary(bundle)))
	fmt.Println(cli.RenderSeriesTable(bundle))

	if viper.GetBool("report.charts") && len(bundle.Labels) > 0 {
		fmt.Println(cli.RenderBarChart("Unique users by month", bundle.Labels, intSeries(bundle.UniqueUsers), cli.Count))
		fmt.Println(cli.RenderBarChart("Total amount by month", bundle.Labels, bundle.TotalAmount, cli.Currency))
		fmt.Println(cli.RenderBarChart("Returning users %", bundle.Labels, bundle.ReturningPct, percent))
	}

	if !bundle.FirstTimeApplicable {
		fmt.Println(cli.SubtleStyle.Render("First-time figures need a concrete --business; aggregate views omit them."))
	}

	return nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func intSeries(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// describeFilter summarizes the active selectors for log lines.
func describeFilter(fc model.FilterContext) string {
	parts := []string{"business=" + fc.Business, "location=" + fc.Location}
	if fc.Current != nil {
		parts = append(parts, fmt.Sprintf("range=%s..%s",
			fc.Current.Start.Format("2006-01-02"), fc.Current.End.Format("2006-01-02")))
	}
	return strings.Join(parts, " ")
}

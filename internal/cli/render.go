package cli

import (
	"fmt"
	"strings"

	"github.com/mverdeja/footfall/internal/model"
)

const maxBarWidth = 40

// FormatGrowth renders a growth percentage with sign and color:
// "+12.3%" in green, "-4.0%" in red, "0.0%" dimmed.
func FormatGrowth(growth float64) string {
	switch {
	case growth > 0:
		return PositiveStyle.Render(fmt.Sprintf("+%.1f%%", growth))
	case growth < 0:
		return NegativeStyle.Render(fmt.Sprintf("%.1f%%", growth))
	default:
		return SubtleStyle.Render("0.0%")
	}
}

// FormatComparison renders "current (vs previous, +x.x%)".
func FormatComparison(label string, c model.Comparison, format func(float64) string) string {
	return fmt.Sprintf("%-16s %s  (prev %s, %s)",
		label,
		format(c.Current),
		format(c.Previous),
		FormatGrowth(c.GrowthPct))
}

// Count formats a scalar that is really an integer count.
func Count(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// Currency formats an amount in dollars.
func Currency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Average formats an average to one decimal.
func Average(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// RenderBarChart draws a horizontal unicode bar chart, one row per
// label. Empty series render as a subtle placeholder instead of
// failing.
func RenderBarChart(title string, labels []string, values []float64, format func(float64) string) string {
	var b strings.Builder
	b.WriteString(TitleStyle.UnsetMargins().Render(title))
	b.WriteString("\n")

	if len(labels) == 0 || len(values) != len(labels) {
		b.WriteString(SubtleStyle.Render("(no data)"))
		return b.String()
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}

	for i, label := range labels {
		width := 0
		if maxVal > 0 {
			width = int(values[i] / maxVal * maxBarWidth)
		}
		bar := strings.Repeat("█", width)
		fmt.Fprintf(&b, "%s  %s %s\n", label, BarStyle.Render(bar), format(values[i]))
	}

	return b.String()
}

// RenderSeriesTable renders the whole bundle as one month-per-row
// table. Series whose length does not match the labels are skipped
// rather than failing the render.
func RenderSeriesTable(bundle *model.MetricsBundle) string {
	if bundle == nil || len(bundle.Labels) == 0 {
		return SubtleStyle.Render("(no data in the selected period)")
	}

	n := len(bundle.Labels)
	var b strings.Builder
	fmt.Fprintf(&b, "%-9s %8s %10s %10s %11s %12s %7s\n",
		"Month", "Users", "Returning", "Window", "First-time", "Amount", "Visits")

	intAt := func(s []int, i int) string {
		if len(s) != n {
			return "-"
		}
		return fmt.Sprintf("%d", s[i])
	}

	for i, label := range bundle.Labels {
		firstTime := "-"
		if bundle.FirstTimeApplicable {
			firstTime = intAt(bundle.FirstTimeUsers, i)
		}
		amount, visits := "-", "-"
		if len(bundle.TotalAmount) == n {
			amount = Currency(bundle.TotalAmount[i])
		}
		if len(bundle.AvgVisitsPerUser) == n {
			visits = Average(bundle.AvgVisitsPerUser[i])
		}
		fmt.Fprintf(&b, "%-9s %8s %10s %10s %11s %12s %7s\n",
			label,
			intAt(bundle.UniqueUsers, i),
			intAt(bundle.ReturningUsers, i),
			intAt(bundle.WindowReturningUsers, i),
			firstTime,
			amount,
			visits)
	}

	return b.String()
}

// RenderSummary renders the headline comparison block for a bundle.
func RenderSummary(bundle *model.MetricsBundle) string {
	lines := []string{
		FormatComparison("Unique users", bundle.UniqueUsersComparison, Count),
		FormatComparison("Returning users", bundle.ReturningUsersComparison, Count),
		FormatComparison("Total amount", bundle.TotalAmountComparison, Currency),
		FormatComparison("Avg visits", bundle.AvgVisitsComparison, Average),
	}
	if bundle.CurrentPeriod != nil {
		lines = append(lines, "",
			SubtleStyle.Render(fmt.Sprintf("Current period:  %s", formatRange(*bundle.CurrentPeriod))))
	}
	if bundle.PreviousPeriod != nil {
		lines = append(lines,
			SubtleStyle.Render(fmt.Sprintf("Previous period: %s", formatRange(*bundle.PreviousPeriod))))
	}
	return strings.Join(lines, "\n")
}

func formatRange(r model.DateRange) string {
	return fmt.Sprintf("%s to %s (%d days)",
		r.Start.Format("Jan 2, 2006"),
		r.End.Format("Jan 2, 2006"),
		r.Days())
}

package cli

import (
	"strings"
	"testing"

	"github.com/mverdeja/footfall/internal/model"
)

func TestFormatGrowth(t *testing.T) {
	tests := []struct {
		growth float64
		want   string
	}{
		{12.34, "+12.3%"},
		{-4.0, "-4.0%"},
		{0, "0.0%"},
		{100, "+100.0%"},
	}
	for _, tt := range tests {
		got := FormatGrowth(tt.growth)
		if !strings.Contains(got, tt.want) {
			t.Errorf("FormatGrowth(%v) = %q, want substring %q", tt.growth, got, tt.want)
		}
	}
}

func TestRenderBarChart(t *testing.T) {
	out := RenderBarChart("Unique users", []string{"2024-01", "2024-02"}, []float64{2, 4}, Count)
	for _, want := range []string{"Unique users", "2024-01", "2024-02", "█", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBarChartEmpty(t *testing.T) {
	out := RenderBarChart("Unique users", nil, nil, Count)
	if !strings.Contains(out, "no data") {
		t.Errorf("empty chart should render a placeholder, got:\n%s", out)
	}
}

func TestRenderBarChartAllZero(t *testing.T) {
	out := RenderBarChart("Returning", []string{"2024-01"}, []float64{0}, Count)
	if !strings.Contains(out, "2024-01") {
		t.Errorf("zero-valued chart should still list labels, got:\n%s", out)
	}
}

func TestRenderSeriesTable(t *testing.T) {
	bundle := &model.MetricsBundle{
		Labels:               []string{"2024-01"},
		UniqueUsers:          []int{2},
		ReturningUsers:       []int{1},
		WindowReturningUsers: []int{1},
		FirstTimeUsers:       []int{1},
		ReturningPct:         []float64{50},
		TotalAmount:          []float64{35},
		AvgVisitsPerUser:     []float64{1.5},
		FirstTimeApplicable:  true,
	}
	out := RenderSeriesTable(bundle)
	for _, want := range []string{"2024-01", "$35.00", "1.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSeriesTableFirstTimeNotApplicable(t *testing.T) {
	bundle := &model.MetricsBundle{
		Labels:           []string{"2024-01"},
		UniqueUsers:      []int{2},
		ReturningUsers:   []int{0},
		FirstTimeUsers:   []int{0},
		TotalAmount:      []float64{10},
		AvgVisitsPerUser: []float64{1},
	}
	out := RenderSeriesTable(bundle)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	row := lines[len(lines)-1]
	if !strings.Contains(row, "-") {
		t.Errorf("aggregate view should dash out first-time column, got row %q", row)
	}
}

func TestRenderSeriesTableEmpty(t *testing.T) {
	if out := RenderSeriesTable(nil); !strings.Contains(out, "no data") {
		t.Errorf("nil bundle should render a placeholder, got %q", out)
	}
}

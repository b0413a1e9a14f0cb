// Package engine orchestrates the metrics pipeline: load CSV text,
// build the first-visit index, and recompute metric bundles for a
// filter context.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/mverdeja/footfall/internal/common"
	"github.com/mverdeja/footfall/internal/csvio"
	"github.com/mverdeja/footfall/internal/metrics"
	"github.com/mverdeja/footfall/internal/model"
	"github.com/mverdeja/footfall/internal/service"
)

// Engine owns the loaded transaction set and its first-visit index.
// Both are replaced atomically by Load: the new set and index are built
// completely before the old ones are dropped, so a failed load leaves
// the previous dataset fully usable.
//
// An Engine is not safe for concurrent use; callers serialize Load and
// Recompute.
type Engine struct {
	transactions []model.Transaction
	index        *metrics.FirstVisitIndex
	loaded       bool
}

// LoadStats reports the outcome of a successful load.
type LoadStats struct {
	DroppedSamples []string `json:"dropped_samples,omitempty"`
	Rows           int      `json:"rows"`
	Transactions   int      `json:"transactions"`
	Dropped        int      `json:"dropped"`
}

// New creates an engine in the empty state.
func New() *Engine {
	return &Engine{}
}

// Ready reports whether a dataset is loaded.
func (e *Engine) Ready() bool {
	return e.loaded
}

// Load replaces the transaction set from raw CSV text and rebuilds the
// first-visit index. A schema failure leaves the previous state
// unchanged.
func (e *Engine) Load(ctx context.Context, csvText string) (*LoadStats, error) {
	result, err := csvio.Parse(ctx, strings.NewReader(csvText))
	if err != nil {
		return nil, fmt.Errorf("failed to load CSV: %w", err)
	}

	e.replace(result.Transactions)

	return &LoadStats{
		Rows:           result.Rows,
		Transactions:   len(result.Transactions),
		Dropped:        result.Dropped,
		DroppedSamples: result.DroppedSamples,
	}, nil
}

// LoadFrom awaits the data-source collaborator and then loads its text
// synchronously. Fetch latency and cancellation belong to the source.
func (e *Engine) LoadFrom(ctx context.Context, source service.TransactionSource) (*LoadStats, error) {
	text, err := source.FetchCSV(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch CSV: %w", err)
	}
	return e.Load(ctx, text)
}

// LoadTransactions replaces the dataset with already-normalized records,
// the path used when reading from the archive instead of a CSV feed.
func (e *Engine) LoadTransactions(transactions []model.Transaction) {
	e.replace(transactions)
	slog.Info("Loaded transactions", "count", len(transactions))
}

func (e *Engine) replace(transactions []model.Transaction) {
	index := metrics.BuildFirstVisitIndex(transactions)
	e.transactions = transactions
	e.index = index
	e.loaded = true
}

// Recompute runs the full pipeline for one filter context: merchant
// filter, date filters for the current and previous periods, monthly
// aggregation, and period comparison.
func (e *Engine) Recompute(fc model.FilterContext) (*model.MetricsBundle, error) {
	if !e.loaded {
		return nil, common.ErrNoData
	}

	scoped := metrics.FilterMerchant(e.transactions, fc.Business, fc.Location)

	current, previous := fc.Current, fc.Previous
	if current == nil {
		cur, prev, ok := metrics.DefaultRanges(scoped)
		if ok {
			current, previous = &cur, &prev
		}
	} else if previous == nil {
		prev := current.PreviousOf()
		previous = &prev
	}

	currentData := metrics.FilterRange(scoped, current)
	previousData := metrics.FilterRange(scoped, previous)

	series := metrics.Aggregate(currentData, e.index, metrics.AggregateContext{
		Business:               fc.Business,
		ReturningWindow:        fc.ReturningWindow,
		FirstTimeThresholdDays: fc.FirstTimeThresholdDays,
	})

	bundle := assembleBundle(series, current, previous)

	currentSummary := metrics.Summarize(currentData)
	previousSummary := metrics.Summarize(previousData)
	bundle.UniqueUsersComparison = metrics.Compare(float64(currentSummary.UniqueUsers), float64(previousSummary.UniqueUsers))
	bundle.ReturningUsersComparison = metrics.Compare(float64(currentSummary.ReturningUsers), float64(previousSummary.ReturningUsers))
	bundle.TotalAmountComparison = metrics.Compare(currentSummary.TotalAmount, previousSummary.TotalAmount)
	bundle.AvgVisitsComparison = metrics.Compare(currentSummary.AvgVisits, previousSummary.AvgVisits)

	return bundle, nil
}

func assembleBundle(series *metrics.MonthlySeries, current, previous *model.DateRange) *model.MetricsBundle {
	n := len(series.Buckets)
	bundle := &model.MetricsBundle{
		Labels:               make([]string, 0, n),
		UniqueUsers:          make([]int, 0, n),
		ReturningUsers:       make([]int, 0, n),
		WindowReturningUsers: make([]int, 0, n),
		FirstTimeUsers:       make([]int, 0, n),
		ReturningPct:         make([]float64, 0, n),
		TotalAmount:          make([]float64, 0, n),
		AvgVisitsPerUser:     make([]float64, 0, n),
		FirstTimeApplicable:  series.FirstTimeApplicable,
		CurrentPeriod:        current,
		PreviousPeriod:       previous,
	}

	for _, b := range series.Buckets {
		bundle.Labels = append(bundle.Labels, b.Month.String())
		bundle.UniqueUsers = append(bundle.UniqueUsers, b.UniqueUsers)
		bundle.ReturningUsers = append(bundle.ReturningUsers, b.ReturningUsers)
		bundle.WindowReturningUsers = append(bundle.WindowReturningUsers, b.WindowReturning)
		bundle.FirstTimeUsers = append(bundle.FirstTimeUsers, b.FirstTime)
		bundle.ReturningPct = append(bundle.ReturningPct, b.ReturningPct)
		bundle.TotalAmount = append(bundle.TotalAmount, b.TotalAmount)
		bundle.AvgVisitsPerUser = append(bundle.AvgVisitsPerUser, b.AvgVisits)
	}

	return bundle
}

// Transactions returns the loaded dataset.
func (e *Engine) Transactions() []model.Transaction {
	return e.transactions
}

// ExportCSV writes the loaded dataset back out as CSV.
func (e *Engine) ExportCSV(w io.Writer) error {
	if !e.loaded {
		return common.ErrNoData
	}
	return csvio.Encode(w, e.transactions)
}

// Businesses returns the sorted distinct business names in the dataset.
func (e *Engine) Businesses() []string {
	seen := make(map[string]struct{})
	for _, tx := range e.transactions {
		seen[model.DecomposeMerchant(tx.Merchant).Business] = struct{}{}
	}
	return sortedKeys(seen)
}

// LocationsFor returns the sorted distinct locations for one business
// selector; model.All spans every business.
func (e *Engine) LocationsFor(business string) []string {
	seen := make(map[string]struct{})
	for _, tx := range e.transactions {
		key := model.DecomposeMerchant(tx.Merchant)
		if business == model.All || key.Business == business {
			seen[key.Location] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

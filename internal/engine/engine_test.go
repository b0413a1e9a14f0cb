package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverdeja/footfall/internal/common"
	"github.com/mverdeja/footfall/internal/model"
)

const januaryCSV = `User Email,Merchant,Date,Transaction Amount
a@x.com,Store-NY,2024-01-05,10.00
a@x.com,Store-NY,2024-01-20,20.00
b@x.com,Store-LA,2024-01-10,5.00
`

func januaryContext() model.FilterContext {
	fc := model.NewFilterContext()
	fc.Business = "Store"
	r := model.NewDateRange(date(2024, 1, 1), date(2024, 1, 31))
	fc.Current = &r
	return fc
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestEngine_EndToEnd(t *testing.T) {
	e := New()
	require.False(t, e.Ready())

	stats, err := e.Load(context.Background(), januaryCSV)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Transactions)
	assert.Equal(t, 0, stats.Dropped)
	require.True(t, e.Ready())

	bundle, err := e.Recompute(januaryContext())
	require.NoError(t, err)

	require.Equal(t, []string{"2024-01"}, bundle.Labels)
	assert.Equal(t, []int{2}, bundle.UniqueUsers)
	assert.Equal(t, []float64{35}, bundle.TotalAmount)
	assert.Equal(t, []int{1}, bundle.ReturningUsers)
	assert.Equal(t, []float64{1.5}, bundle.AvgVisitsPerUser)
	assert.True(t, bundle.FirstTimeApplicable)

	// Previous period derives automatically and is empty, so growth
	// from the zero base is +100%.
	assert.Equal(t, float64(2), bundle.UniqueUsersComparison.Current)
	assert.Equal(t, float64(0), bundle.UniqueUsersComparison.Previous)
	assert.Equal(t, float64(100), bundle.UniqueUsersComparison.GrowthPct)
}

func TestEngine_RecomputeWithoutData(t *testing.T) {
	e := New()
	_, err := e.Recompute(model.NewFilterContext())
	assert.ErrorIs(t, err, common.ErrNoData)
}

func TestEngine_SchemaErrorPreservesState(t *testing.T) {
	e := New()
	_, err := e.Load(context.Background(), januaryCSV)
	require.NoError(t, err)

	_, err = e.Load(context.Background(), "User Email,Merchant,Date\na@x.com,Store-NY,2024-01-05\n")
	var schemaErr *common.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"amount"}, schemaErr.Missing)

	// Prior dataset remains queryable.
	require.True(t, e.Ready())
	bundle, err := e.Recompute(januaryContext())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, bundle.UniqueUsers)
}

func TestEngine_ReloadReplacesWholesale(t *testing.T) {
	e := New()
	_, err := e.Load(context.Background(), januaryCSV)
	require.NoError(t, err)

	replacement := `User Email,Merchant,Date,Transaction Amount
z@x.com,Bar-SF,2024-06-01,7.50
`
	_, err = e.Load(context.Background(), replacement)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bar"}, e.Businesses())
	assert.Len(t, e.Transactions(), 1)
}

func TestEngine_DefaultRanges(t *testing.T) {
	e := New()
	_, err := e.Load(context.Background(), januaryCSV)
	require.NoError(t, err)

	fc := model.NewFilterContext()
	bundle, err := e.Recompute(fc)
	require.NoError(t, err)

	require.NotNil(t, bundle.CurrentPeriod)
	require.NotNil(t, bundle.PreviousPeriod)
	assert.Equal(t, 30, bundle.CurrentPeriod.Days())
	assert.Equal(t, []string{"2024-01"}, bundle.Labels)
	// Aggregate view: first-time semantics undefined.
	assert.False(t, bundle.FirstTimeApplicable)
}

func TestEngine_BusinessAndLocationEnumeration(t *testing.T) {
	e := New()
	csv := `User Email,Merchant,Date,Transaction Amount
a@x.com,Store-NY,2024-01-05,1.00
b@x.com,Store-LA,2024-01-06,1.00
c@x.com,Cafe-NY,2024-01-07,1.00
d@x.com,Kiosk,2024-01-08,1.00
`
	_, err := e.Load(context.Background(), csv)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cafe", "Kiosk", "Store"}, e.Businesses())
	assert.Equal(t, []string{"LA", "NY"}, e.LocationsFor("Store"))
	assert.Equal(t, []string{"LA", "NY", model.LocationUnknown}, e.LocationsFor(model.All))
}

func TestEngine_ExportRoundTrip(t *testing.T) {
	e := New()
	_, err := e.Load(context.Background(), januaryCSV)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, e.ExportCSV(&out))

	reloaded := New()
	stats, err := reloaded.Load(context.Background(), out.String())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Transactions)

	empty := New()
	assert.True(t, errors.Is(empty.ExportCSV(&out), common.ErrNoData))
}

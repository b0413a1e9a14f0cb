package metrics

import (
	"time"

	"github.com/mverdeja/footfall/internal/model"
)

// defaultRangeDays is the rolling window used when the caller supplies
// no date range.
const defaultRangeDays = 30

// FilterMerchant narrows a transaction set to one business and/or
// location selector. model.All on either selector matches everything;
// both must pass.
func FilterMerchant(transactions []model.Transaction, business, location string) []model.Transaction {
	if business == model.All && location == model.All {
		return transactions
	}

	filtered := make([]model.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		key := model.DecomposeMerchant(tx.Merchant)
		if business != model.All && key.Business != business {
			continue
		}
		if location != model.All && key.Location != location {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

// FilterRange narrows a transaction set to a closed date interval,
// inclusive on both ends at calendar-day resolution. A nil range keeps
// everything.
func FilterRange(transactions []model.Transaction, r *model.DateRange) []model.Transaction {
	if r == nil {
		return transactions
	}

	filtered := make([]model.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if r.Contains(tx.Date) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// DefaultRanges derives the fallback view for a dataset with no range
// selected: the last 30 days of data as the current period, anchored at
// the latest transaction date, and the symmetric 30 days before it as
// the previous period. ok is false when the set is empty.
func DefaultRanges(transactions []model.Transaction) (current, previous model.DateRange, ok bool) {
	if len(transactions) == 0 {
		return model.DateRange{}, model.DateRange{}, false
	}

	var latest time.Time
	for _, tx := range transactions {
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}

	current = RangeEndingAt(latest, defaultRangeDays)
	return current, current.PreviousOf(), true
}

// RangeEndingAt builds a rolling window of the given day count ending at
// end.
func RangeEndingAt(end time.Time, days int) model.DateRange {
	return model.NewDateRange(end.AddDate(0, 0, -(days-1)), end)
}

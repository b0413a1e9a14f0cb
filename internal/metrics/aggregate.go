package metrics

import (
	"sort"

	"github.com/mverdeja/footfall/internal/model"
)

// AggregateContext carries the parameters the monthly aggregation
// depends on beyond the transaction subset itself.
type AggregateContext struct {
	// Business is the selected business, or model.All. First-time
	// users are only defined for a concrete business.
	Business string
	// ReturningWindow is how many prior buckets to check for user
	// overlap; 0 disables window-returning computation.
	ReturningWindow int
	// FirstTimeThresholdDays is the minimum number of days between a
	// user's first-ever visit anywhere and their first visit to the
	// selected business.
	FirstTimeThresholdDays int
}

// Bucket holds the derived metrics for one calendar month.
type Bucket struct {
	Month model.YearMonth
	// UniqueUsers is the count of distinct users active this month.
	UniqueUsers int
	// ReturningUsers counts users with two or more distinct activity
	// days within this month.
	ReturningUsers int
	// WindowReturning counts users also present in at least one of
	// the N buckets immediately preceding this one in the sorted
	// bucket list. Position, not calendar distance: a month with no
	// transactions produces no bucket at all, so a gap month does not
	// consume a window slot.
	WindowReturning int
	// FirstTime counts users whose first-ever visit to the selected
	// business fell in this month, at least the threshold number of
	// days after their first visit to any business.
	FirstTime int
	// ReturningPct is ReturningUsers (window 0) or WindowReturning
	// (window > 0) as a percentage of UniqueUsers.
	ReturningPct float64
	TotalAmount  float64
	// AvgVisits is distinct activity days summed over users, divided
	// by UniqueUsers. 0 for an empty bucket.
	AvgVisits float64
}

// MonthlySeries is the aggregation result: buckets in ascending month
// order.
type MonthlySeries struct {
	Buckets []Bucket
	// FirstTimeApplicable is false when the aggregation ran with the
	// aggregate business selector, where first-time semantics are
	// undefined.
	FirstTimeApplicable bool
}

// bucketAccum collects raw per-month state during the bucketing pass.
type bucketAccum struct {
	users     map[string]struct{}
	visitDays map[string]map[string]struct{}
	amount    float64
}

// Aggregate buckets a filtered transaction subset by calendar month and
// computes the per-bucket metrics. The first-visit index must come from
// the full dataset, never the filtered subset.
func Aggregate(transactions []model.Transaction, idx *FirstVisitIndex, actx AggregateContext) *MonthlySeries {
	accums := make(map[model.YearMonth]*bucketAccum)

	for _, tx := range transactions {
		month := model.YM(tx.Date)
		acc, ok := accums[month]
		if !ok {
			acc = &bucketAccum{
				users:     make(map[string]struct{}),
				visitDays: make(map[string]map[string]struct{}),
			}
			accums[month] = acc
		}

		acc.users[tx.Email] = struct{}{}
		acc.amount += tx.Amount

		days, ok := acc.visitDays[tx.Email]
		if !ok {
			days = make(map[string]struct{})
			acc.visitDays[tx.Email] = days
		}
		days[tx.Date.Format("2006-01-02")] = struct{}{}
	}

	months := make([]model.YearMonth, 0, len(accums))
	for month := range accums {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	series := &MonthlySeries{
		Buckets:             make([]Bucket, 0, len(months)),
		FirstTimeApplicable: actx.Business != model.All,
	}

	for pos, month := range months {
		acc := accums[month]
		bucket := Bucket{
			Month:       month,
			UniqueUsers: len(acc.users),
			TotalAmount: acc.amount,
		}

		totalVisitDays := 0
		for _, days := range acc.visitDays {
			totalVisitDays += len(days)
			if len(days) >= 2 {
				bucket.ReturningUsers++
			}
		}
		if bucket.UniqueUsers > 0 {
			bucket.AvgVisits = float64(totalVisitDays) / float64(bucket.UniqueUsers)
		}

		if actx.ReturningWindow > 0 {
			bucket.WindowReturning = windowReturning(accums, months, pos, actx.ReturningWindow)
		}

		if series.FirstTimeApplicable {
			bucket.FirstTime = firstTimeUsers(acc, month, idx, actx)
		}

		returning := bucket.ReturningUsers
		if actx.ReturningWindow > 0 {
			returning = bucket.WindowReturning
		}
		if bucket.UniqueUsers > 0 {
			bucket.ReturningPct = float64(returning) / float64(bucket.UniqueUsers) * 100
		}

		series.Buckets = append(series.Buckets, bucket)
	}

	return series
}

// windowReturning counts users of the bucket at pos who also appear in
// any of the window buckets immediately preceding it in the sorted
// month slice.
func windowReturning(accums map[model.YearMonth]*bucketAccum, months []model.YearMonth, pos, window int) int {
	prior := make(map[string]struct{})
	for i := 1; i <= window && pos-i >= 0; i++ {
		for email := range accums[months[pos-i]].users {
			prior[email] = struct{}{}
		}
	}

	count := 0
	for email := range accums[months[pos]].users {
		if _, ok := prior[email]; ok {
			count++
		}
	}
	return count
}

// firstTimeUsers counts users whose first visit to the selected business
// happened this month, at least the threshold number of days after
// their first visit to any business.
func firstTimeUsers(acc *bucketAccum, month model.YearMonth, idx *FirstVisitIndex, actx AggregateContext) int {
	count := 0
	for email := range acc.users {
		businessFirst, ok := idx.Business(email, actx.Business)
		if !ok || model.YM(businessFirst) != month {
			continue
		}

		globalFirst, ok := idx.Global(email)
		if !ok {
			continue
		}

		daysDiff := businessFirst.Sub(globalFirst).Hours() / 24
		if daysDiff >= float64(actx.FirstTimeThresholdDays) {
			count++
		}
	}
	return count
}

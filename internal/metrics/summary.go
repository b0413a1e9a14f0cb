package metrics

import "github.com/mverdeja/footfall/internal/model"

// PeriodSummary holds the headline scalars for one filtered period,
// used for period-over-period comparison.
type PeriodSummary struct {
	UniqueUsers    int
	ReturningUsers int
	TotalAmount    float64
	AvgVisits      float64
}

// Summarize computes the headline scalars over a filtered period slice.
// Visits are counted as distinct activity days per user, the same rule
// the monthly buckets use; returning means two or more such days inside
// the period.
func Summarize(transactions []model.Transaction) PeriodSummary {
	visitDays := make(map[string]map[string]struct{})
	var summary PeriodSummary

	for _, tx := range transactions {
		summary.TotalAmount += tx.Amount
		days, ok := visitDays[tx.Email]
		if !ok {
			days = make(map[string]struct{})
			visitDays[tx.Email] = days
		}
		days[tx.Date.Format("2006-01-02")] = struct{}{}
	}

	summary.UniqueUsers = len(visitDays)
	totalVisitDays := 0
	for _, days := range visitDays {
		totalVisitDays += len(days)
		if len(days) >= 2 {
			summary.ReturningUsers++
		}
	}
	if summary.UniqueUsers > 0 {
		summary.AvgVisits = float64(totalVisitDays) / float64(summary.UniqueUsers)
	}

	return summary
}

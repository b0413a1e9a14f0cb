package metrics

import "github.com/mverdeja/footfall/internal/model"

// Growth computes simple percentage growth between a current-period
// scalar and its previous-period equivalent. Growth from a zero base is
// +100% when anything grew and 0 otherwise, never infinite.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// Compare assembles a current/previous/growth triple.
func Compare(current, previous float64) model.Comparison {
	return model.Comparison{
		Current:   current,
		Previous:  previous,
		GrowthPct: Growth(current, previous),
	}
}

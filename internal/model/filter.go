package model

// FilterContext carries the view parameters for one metrics
// recomputation. It is supplied by the caller on every Recompute and
// never retained by the engine.
//
// ReturningWindow and FirstTimeThresholdDays must be non-negative;
// negative values are a caller error.
type FilterContext struct {
	Business               string
	Location               string
	Current                *DateRange
	Previous               *DateRange
	ReturningWindow        int
	FirstTimeThresholdDays int
}

// NewFilterContext returns a context that matches everything, with the
// defaults the dashboard starts from: a one-month returning window and a
// one-day first-time threshold.
func NewFilterContext() FilterContext {
	return FilterContext{
		Business:               All,
		Location:               All,
		ReturningWindow:        1,
		FirstTimeThresholdDays: 1,
	}
}

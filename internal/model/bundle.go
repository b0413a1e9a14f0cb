package model

// Comparison is a current/previous/growth triple for one headline
// metric.
type Comparison struct {
	Current   float64 `json:"current"`
	Previous  float64 `json:"previous"`
	GrowthPct float64 `json:"growth_pct"`
}

// MetricsBundle is the output of one recomputation: per-month series in
// label order plus headline period comparisons. It is what chart
// renderers and the HTTP API consume.
type MetricsBundle struct {
	// Labels holds the "YYYY-MM" bucket keys in ascending order. All
	// series below are parallel to it.
	Labels               []string  `json:"labels"`
	UniqueUsers          []int     `json:"unique_users"`
	ReturningUsers       []int     `json:"returning_users"`
	WindowReturningUsers []int     `json:"window_returning_users"`
	FirstTimeUsers       []int     `json:"first_time_users"`
	ReturningPct         []float64 `json:"returning_pct"`
	TotalAmount          []float64 `json:"total_amount"`
	AvgVisitsPerUser     []float64 `json:"avg_visits_per_user"`

	// FirstTimeApplicable is false when no concrete business is
	// selected; the first-time series is undefined for an aggregate
	// view and is emitted as zeros.
	FirstTimeApplicable bool `json:"first_time_applicable"`

	CurrentPeriod  *DateRange `json:"current_period,omitempty"`
	PreviousPeriod *DateRange `json:"previous_period,omitempty"`

	UniqueUsersComparison    Comparison `json:"unique_users_comparison"`
	ReturningUsersComparison Comparison `json:"returning_users_comparison"`
	TotalAmountComparison    Comparison `json:"total_amount_comparison"`
	AvgVisitsComparison      Comparison `json:"avg_visits_comparison"`
}

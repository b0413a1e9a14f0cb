package model

import "time"

// DateRange is a closed date interval at calendar-day resolution. Start
// is normalized to 00:00:00 and End to 23:59:59.999999999 of their
// respective days, so Contains is inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from two timestamps, normalizing them to
// day boundaries.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: DayFloor(start), End: dayCeil(end)}
}

// DayFloor truncates a timestamp to the start of its calendar day.
func DayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayCeil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the number of calendar days the range spans, counting
// both endpoints.
func (r DateRange) Days() int {
	return int(DayFloor(r.End).Sub(r.Start).Hours()/24) + 1
}

// PreviousOf derives the symmetric previous period: it ends the day
// before this range starts and spans the same number of days.
func (r DateRange) PreviousOf() DateRange {
	days := r.Days()
	prevEnd := r.Start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(days - 1))
	return NewDateRange(prevStart, prevEnd)
}

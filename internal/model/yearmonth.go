package model

import (
	"fmt"
	"time"
)

// YearMonth identifies one calendar month. Its string form "YYYY-MM" is
// zero-padded, so lexical ordering of the strings matches chronological
// ordering.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YM returns the calendar month a timestamp falls in.
func YM(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Before reports whether ym is chronologically earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

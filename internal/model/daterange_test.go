package model

import (
	"testing"
	"time"
)

func TestDateRange_Contains(t *testing.T) {
	r := NewDateRange(
		time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC),
	)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{
			name: "exactly at start midnight",
			date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "end of last day",
			date: time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC),
			want: true,
		},
		{
			name: "just past the end day",
			date: time.Date(2024, 1, 21, 0, 0, 1, 0, time.UTC),
			want: false,
		},
		{
			name: "day before start",
			date: time.Date(2024, 1, 9, 23, 59, 59, 0, time.UTC),
			want: false,
		},
		{
			name: "middle of range",
			date: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.date); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	r := NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
	)
	if got := r.Days(); got != 30 {
		t.Errorf("Days() = %d, want 30", got)
	}

	single := NewDateRange(
		time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC),
	)
	if got := single.Days(); got != 1 {
		t.Errorf("single-day Days() = %d, want 1", got)
	}
}

func TestDateRange_PreviousOf(t *testing.T) {
	r := NewDateRange(
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	)
	prev := r.PreviousOf()

	wantStart := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if !prev.Start.Equal(wantStart) {
		t.Errorf("prev.Start = %v, want %v", prev.Start, wantStart)
	}
	wantEnd := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if !DayFloor(prev.End).Equal(wantEnd) {
		t.Errorf("prev.End day = %v, want %v", DayFloor(prev.End), wantEnd)
	}
	if prev.Days() != r.Days() {
		t.Errorf("prev.Days() = %d, want %d", prev.Days(), r.Days())
	}
}

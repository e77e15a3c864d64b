package timeutil

import (
	"testing"
	"time"
)

func TestWeekKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"jan first", time.Date(2024, 1, 1, 10, 0, 0, 0, IST), "2024-W1"},
		{"day seven", time.Date(2024, 1, 7, 10, 0, 0, 0, IST), "2024-W1"},
		{"day eight", time.Date(2024, 1, 8, 0, 0, 0, 0, IST), "2024-W2"},
		{"utc evening rolls into next ist day", time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC), "2024-W2"},
		{"end of year", time.Date(2023, 12, 31, 12, 0, 0, 0, IST), "2023-W53"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekKey(tt.in); got != tt.want {
				t.Errorf("WeekKey(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC)); got != "2024-02" {
		t.Errorf("MonthKey = %q, want 2024-02 (IST is ahead of UTC)", got)
	}
	if got := MonthKey(time.Date(2024, 1, 5, 0, 0, 0, 0, IST)); got != "2024-01" {
		t.Errorf("MonthKey = %q, want 2024-01", got)
	}
}

func TestParseDateParam(t *testing.T) {
	start, err := ParseDateParam("2024-03-10", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, IST)) {
		t.Errorf("start = %v", start)
	}

	end, err := ParseDateParam("2024-03-10", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !end.Equal(EndOfDay(start)) {
		t.Errorf("end = %v, want %v", end, EndOfDay(start))
	}

	ts, err := ParseDateParam("2024-03-10T05:00:00Z", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.Equal(time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC)) {
		t.Errorf("rfc3339 value was altered: %v", ts)
	}

	if _, err := ParseDateParam("10/03/2024", false); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

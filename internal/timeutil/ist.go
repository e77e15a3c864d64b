package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30)
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts any time to IST
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// StartOfDay returns 00:00:00 in IST for the given time
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// EndOfDay returns 23:59:59.999999999 in IST for the given time
func EndOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 23, 59, 59, 999999999, IST)
}

// MonthsAgo returns now shifted back n calendar months.
func MonthsAgo(now time.Time, n int) time.Time {
	return now.AddDate(0, -n, 0)
}

// MonthKey returns the YYYY-MM bucket for t in IST.
func MonthKey(t time.Time) string {
	return t.In(IST).Format("2006-01")
}

// WeekKey returns the YYYY-W<n> bucket for t in IST where n counts
// seven-day blocks from January 1st, starting at 1.
func WeekKey(t time.Time) string {
	ist := t.In(IST)
	startOfYear := time.Date(ist.Year(), time.January, 1, 0, 0, 0, 0, IST)
	days := int(ist.Sub(startOfYear).Hours() / 24)
	return fmt.Sprintf("%d-W%d", ist.Year(), days/7+1)
}

// ParseDateParam parses a query parameter that is either a bare date
// (YYYY-MM-DD, IST) or an RFC3339 timestamp. For bare dates endOfDay selects
// whether the start or the end of that day is returned.
func ParseDateParam(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, IST)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return EndOfDay(t), nil
	}
	return t, nil
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
	InvoiceLayout  = "060102"
)

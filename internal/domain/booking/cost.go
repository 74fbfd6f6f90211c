package booking

import "time"

// WholeDaysInclusive counts rental days with both endpoints included:
// a same-day rental is one day, day0..day2 is three.
func WholeDaysInclusive(start, end time.Time) int64 {
	s := truncateToDate(start)
	e := truncateToDate(end)
	return int64(e.Sub(s)/(24*time.Hour)) + 1
}

// TotalCostCents is dailyRate * inclusive day count.
func TotalCostCents(dailyRateCents int64, start, end time.Time) int64 {
	return dailyRateCents * WholeDaysInclusive(start, end)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

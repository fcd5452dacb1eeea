package domain

import "time"

// DateRange is an inclusive day range used by the "por_fecha" listings.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// EndExclusive returns the first instant after the range.
func (r DateRange) EndExclusive() time.Time {
	return r.To.AddDate(0, 0, 1)
}

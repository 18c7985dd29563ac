package booking

import (
	"time"

	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

// Filter selects bookings for display. It is a query-only classification and
// never persisted: the temporal variants are derived from comparing a
// reference instant against the booked period, the status variants reuse the
// Status values as equality predicates.
type Filter string

const (
	FilterAll      Filter = "ALL"
	FilterPast     Filter = "PAST"
	FilterCurrent  Filter = "CURRENT"
	FilterFuture   Filter = "FUTURE"
	FilterWaiting  Filter = "WAITING"
	FilterRejected Filter = "REJECTED"
	FilterApproved Filter = "APPROVED"
)

// ParseFilter converts a raw filter token to a Filter. An empty token
// defaults to ALL; an unrecognized token is an invalid-parameters error.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	switch f := Filter(s); f {
	case FilterAll, FilterPast, FilterCurrent, FilterFuture,
		FilterWaiting, FilterRejected, FilterApproved:
		return f, nil
	}
	return "", sharederr.NewInvalidParametersError("unknown booking filter: " + s)
}

// Status returns the status a status-based filter stands for, and whether
// the filter is status-based at all.
func (f Filter) Status() (Status, bool) {
	switch f {
	case FilterWaiting:
		return StatusWaiting, true
	case FilterRejected:
		return StatusRejected, true
	case FilterApproved:
		return StatusApproved, true
	}
	return "", false
}

// Matches reports whether a booking falls under the filter at the given
// reference instant. Temporal comparisons are strict, so a booking whose
// boundary equals now matches neither PAST, CURRENT nor FUTURE.
func (f Filter) Matches(b *Booking, now time.Time) bool {
	switch f {
	case FilterAll:
		return true
	case FilterPast:
		return b.End().Before(now)
	case FilterCurrent:
		return b.Start().Before(now) && b.End().After(now)
	case FilterFuture:
		return b.Start().After(now)
	case FilterWaiting:
		return b.Status() == StatusWaiting
	case FilterRejected:
		return b.Status() == StatusRejected
	case FilterApproved:
		return b.Status() == StatusApproved
	}
	return false
}

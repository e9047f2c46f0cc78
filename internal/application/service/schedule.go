package service

import (
	"time"

	"github.com/credfacil/backoffice-api/pkg/apperror"
)

// maxFirstDueOffsetDays caps how far ahead the first installment may fall
const maxFirstDueOffsetDays = 40

// AnchorDays are the due days of the month customers can choose from
var AnchorDays = []int{1, 10, 20}

// FirstDueDate picks the due date of the first installment. Candidates
// are the anchor day placed in the reference month and the two following
// months, the day clamped to the month length. The chosen candidate is
// the furthest one that still falls within 40 days after the reference
// date; a candidate on or before the reference date never qualifies.
// Returns apperror.ErrScheduling when no candidate fits the window.
func FirstDueDate(reference time.Time, anchorDay int) (time.Time, error) {
	// Work in UTC so day arithmetic is immune to DST transitions
	ref := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)

	for monthOffset := 2; monthOffset >= 0; monthOffset-- {
		candidate := anchoredDate(ref.Year(), ref.Month()+time.Month(monthOffset), anchorDay, time.UTC)
		offset := int(candidate.Sub(ref).Hours() / 24)
		if offset > 0 && offset <= maxFirstDueOffsetDays {
			return candidate, nil
		}
	}

	return time.Time{}, apperror.ErrScheduling
}

// InstallmentDueDate returns the due date of installment number n for a
// schedule starting at first. Each installment falls one month after the
// previous, the anchor day clamped to shorter months.
func InstallmentDueDate(first time.Time, n int) time.Time {
	if n <= 1 {
		return truncateToDay(first)
	}
	f := truncateToDay(first)
	return anchoredDate(f.Year(), f.Month()+time.Month(n-1), f.Day(), f.Location())
}

// anchoredDate builds a date on the given anchor day, clamping to the
// last day of the month when the month is shorter. Month may overflow
// past December; time.Date normalizes it.
func anchoredDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	last := daysInMonth(year, month)
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

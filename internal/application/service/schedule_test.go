package service

import (
	"testing"
	"time"

	"github.com/credfacil/backoffice-api/pkg/apperror"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFirstDueDatePicksFurthestCandidateInWindow(t *testing.T) {
	// Reference Jan 31, anchor 10: Mar 10 is 38 days out and wins over
	// Feb 10 because the furthest fit inside 40 days is chosen
	got, err := FirstDueDate(date(2025, time.January, 31), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2025, time.March, 10); !got.Equal(want) {
		t.Fatalf("first due date = %s, want %s", got, want)
	}
}

func TestFirstDueDateFallsBackToNearerMonths(t *testing.T) {
	// Reference Jan 1, anchor 10: Mar 10 is 68 days out, Feb 10 is
	// exactly 40 and qualifies
	got, err := FirstDueDate(date(2025, time.January, 1), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2025, time.February, 10); !got.Equal(want) {
		t.Fatalf("first due date = %s, want %s", got, want)
	}
}

func TestFirstDueDateNeverPicksToday(t *testing.T) {
	// Reference Jan 10, anchor 10: the same-day candidate has offset 0
	// and never qualifies
	got, err := FirstDueDate(date(2025, time.January, 10), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2025, time.February, 10); !got.Equal(want) {
		t.Fatalf("first due date = %s, want %s", got, want)
	}
}

func TestFirstDueDateCurrentMonthCandidate(t *testing.T) {
	// Reference Jan 1, anchor 20: only the current month's Jan 20 fits
	got, err := FirstDueDate(date(2025, time.January, 1), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2025, time.January, 20); !got.Equal(want) {
		t.Fatalf("first due date = %s, want %s", got, want)
	}
}

func TestFirstDueDateNoCandidate(t *testing.T) {
	// A pathological anchor that normalizes far past the window exposes
	// the no-candidate branch
	_, err := FirstDueDate(date(2025, time.January, 1), -60)
	if err != apperror.ErrScheduling {
		t.Fatalf("expected ErrScheduling, got %v", err)
	}
}

func TestInstallmentDueDateClampsShortMonths(t *testing.T) {
	first := date(2025, time.January, 31)

	cases := []struct {
		n    int
		want time.Time
	}{
		{1, date(2025, time.January, 31)},
		{2, date(2025, time.February, 28)},
		{3, date(2025, time.March, 31)},
		{4, date(2025, time.April, 30)},
	}
	for _, tc := range cases {
		if got := InstallmentDueDate(first, tc.n); !got.Equal(tc.want) {
			t.Errorf("installment %d due date = %s, want %s", tc.n, got, tc.want)
		}
	}
}

func TestInstallmentDueDateLeapFebruary(t *testing.T) {
	first := date(2024, time.January, 30)
	if got, want := InstallmentDueDate(first, 2), date(2024, time.February, 29); !got.Equal(want) {
		t.Fatalf("leap february due date = %s, want %s", got, want)
	}
}

package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/enum"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInstallmentStatusDerivation(t *testing.T) {
	today := day(2025, time.March, 15)

	cases := []struct {
		name string
		inst Installment
		want enum.InstallmentStatus
	}{
		{
			name: "confirmed wins over everything",
			inst: Installment{ConfirmedPaid: true, SelfReported: true, DueDate: day(2025, time.January, 10)},
			want: enum.InstallmentStatusPaid,
		},
		{
			name: "self report wins over overdue",
			inst: Installment{SelfReported: true, DueDate: day(2025, time.January, 10)},
			want: enum.InstallmentStatusAwaitingConfirmation,
		},
		{
			name: "past due date is overdue",
			inst: Installment{DueDate: day(2025, time.March, 14)},
			want: enum.InstallmentStatusOverdue,
		},
		{
			name: "due today is upcoming",
			inst: Installment{DueDate: day(2025, time.March, 15)},
			want: enum.InstallmentStatusUpcoming,
		},
		{
			name: "future due date is upcoming",
			inst: Installment{DueDate: day(2025, time.April, 10)},
			want: enum.InstallmentStatusUpcoming,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.inst.Status(today); got != tc.want {
				t.Errorf("status = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestInstallmentStatusIgnoresTimeOfDay(t *testing.T) {
	inst := Installment{DueDate: time.Date(2025, time.March, 15, 23, 59, 0, 0, time.UTC)}
	today := time.Date(2025, time.March, 15, 0, 1, 0, 0, time.UTC)
	if got := inst.Status(today); got != enum.InstallmentStatusUpcoming {
		t.Errorf("status = %v, want upcoming on the due day itself", got)
	}
}

func TestInstallmentOutstanding(t *testing.T) {
	inst := Installment{
		Value:      decimal.RequireFromString("100.00"),
		PaidAmount: decimal.RequireFromString("40.00"),
		Discount:   decimal.RequireFromString("10.00"),
	}
	if got := inst.Outstanding(); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("outstanding = %s, want 50.00", got)
	}

	// Overpayment floors at zero
	inst.PaidAmount = decimal.RequireFromString("95.00")
	if got := inst.Outstanding(); !got.IsZero() {
		t.Errorf("outstanding = %s, want 0", got)
	}
}

func TestPaymentInstallmentValue(t *testing.T) {
	p := Payment{Total: decimal.RequireFromString("400.00"), InstallmentCount: 4}
	if got := p.InstallmentValue(); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("value = %s, want 100.00", got)
	}

	p = Payment{Total: decimal.RequireFromString("100.00"), InstallmentCount: 3}
	if got := p.InstallmentValue(); !got.Equal(decimal.RequireFromString("33.33")) {
		t.Errorf("value = %s, want 33.33", got)
	}
}

func TestPaymentCoreTermsChanged(t *testing.T) {
	base := Payment{
		Total:            decimal.RequireFromString("400.00"),
		InstallmentCount: 4,
		FirstDueDate:     day(2025, time.February, 10),
	}

	edited := base
	edited.Blocked = true
	edited.Settled = true
	edited.DiscountPct = decimal.RequireFromString("10.00")
	if edited.CoreTermsChanged(&base) {
		t.Error("flag and discount changes must not count as core changes")
	}

	edited = base
	edited.Total = decimal.RequireFromString("450.00")
	if !edited.CoreTermsChanged(&base) {
		t.Error("total change not detected")
	}

	edited = base
	edited.FirstDueDate = day(2025, time.March, 10)
	if !edited.CoreTermsChanged(&base) {
		t.Error("first due date change not detected")
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

type fakeNotifier struct {
	events []Event
}

func (f *fakeNotifier) Notify(ctx context.Context, store *entity.Store, event Event) {
	f.events = append(f.events, event)
}

func installmentFixture(t *testing.T) (*InstallmentService, *fakeInstallmentRepo, *fakeNotifier, uuid.UUID) {
	t.Helper()

	store := &entity.Store{ID: uuid.New(), Name: "Loja Centro", Settings: entity.DefaultStoreSettings()}
	installmentRepo := newFakeInstallmentRepo()
	notifier := &fakeNotifier{}
	svc := NewInstallmentService(installmentRepo, newFakePaymentRepo(), nil, newFakeStoreRepo(store), notifier)
	return svc, installmentRepo, notifier, store.ID
}

func seedInstallments(repo *fakeInstallmentRepo, storeID uuid.UUID, installments ...entity.Installment) (uuid.UUID, []uuid.UUID) {
	paymentID := uuid.New()
	ids := make([]uuid.UUID, len(installments))
	for i := range installments {
		installments[i].ID = uuid.New()
		installments[i].PaymentID = paymentID
		installments[i].StoreID = storeID
		installments[i].Number = i + 1
		ids[i] = installments[i].ID
	}
	repo.byPayment[paymentID] = installments
	return paymentID, ids
}

func TestRegenerateReplacesSchedule(t *testing.T) {
	svc, repo, _, storeID := installmentFixture(t)

	payment := &entity.Payment{
		ID:               uuid.New(),
		StoreID:          storeID,
		Total:            decimal.RequireFromString("400.00"),
		InstallmentCount: 4,
		FirstDueDate:     date(2025, time.February, 10),
	}

	if err := svc.Regenerate(context.Background(), payment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.deleted) != 1 || repo.deleted[0] != payment.ID {
		t.Fatal("existing schedule was not deleted before recreating")
	}

	rows := repo.byPayment[payment.ID]
	if len(rows) != 4 {
		t.Fatalf("got %d installments, want 4", len(rows))
	}
	wantDue := []time.Time{
		date(2025, time.February, 10),
		date(2025, time.March, 10),
		date(2025, time.April, 10),
		date(2025, time.May, 10),
	}
	for i, row := range rows {
		if row.Number != i+1 {
			t.Errorf("row %d number = %d", i, row.Number)
		}
		if !row.Value.Equal(decimal.RequireFromString("100.00")) {
			t.Errorf("row %d value = %s, want 100.00", i, row.Value)
		}
		if !row.DueDate.Equal(wantDue[i]) {
			t.Errorf("row %d due date = %s, want %s", i, row.DueDate, wantDue[i])
		}
	}
}

func TestRegenerateSingleShotPaymentGetsOneRow(t *testing.T) {
	svc, repo, _, storeID := installmentFixture(t)

	payment := &entity.Payment{
		ID:           uuid.New(),
		StoreID:      storeID,
		Total:        decimal.RequireFromString("150.00"),
		FirstDueDate: date(2025, time.February, 10),
	}

	if err := svc.Regenerate(context.Background(), payment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := repo.byPayment[payment.ID]
	if len(rows) != 1 {
		t.Fatalf("got %d installments, want 1", len(rows))
	}
	if !rows[0].Value.Equal(payment.Total) {
		t.Errorf("value = %s, want %s", rows[0].Value, payment.Total)
	}
}

func TestRegenerateLeavesRoundingDrift(t *testing.T) {
	svc, repo, _, storeID := installmentFixture(t)

	payment := &entity.Payment{
		ID:               uuid.New(),
		StoreID:          storeID,
		Total:            decimal.RequireFromString("100.00"),
		InstallmentCount: 3,
		FirstDueDate:     date(2025, time.February, 10),
	}

	if err := svc.Regenerate(context.Background(), payment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 100 / 3 rounds to 33.33 on every row; the drift stays
	for i, row := range repo.byPayment[payment.ID] {
		if !row.Value.Equal(decimal.RequireFromString("33.33")) {
			t.Errorf("row %d value = %s, want 33.33", i, row.Value)
		}
	}
}

func TestSelfReportNotifiesOnce(t *testing.T) {
	svc, repo, notifier, storeID := installmentFixture(t)
	_, ids := seedInstallments(repo, storeID, entity.Installment{
		DueDate: date(2025, time.March, 10),
		Value:   decimal.RequireFromString("100.00"),
	})
	id := ids[0]

	inst, err := svc.SelfReport(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inst.SelfReported || inst.SelfReportedAt == nil {
		t.Fatal("installment not marked self reported")
	}
	if len(notifier.events) != 1 || notifier.events[0].Name != EventInstallmentSelfReported {
		t.Fatalf("events = %v, want one self-report event", notifier.events)
	}

	// Repeat reports are idempotent and silent
	if _, err := svc.SelfReport(context.Background(), id); err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("repeat report emitted %d extra events", len(notifier.events)-1)
	}
}

func TestSelfReportIgnoresConfirmedInstallment(t *testing.T) {
	svc, repo, notifier, storeID := installmentFixture(t)
	_, ids := seedInstallments(repo, storeID, entity.Installment{
		DueDate:       date(2025, time.March, 10),
		Value:         decimal.RequireFromString("100.00"),
		ConfirmedPaid: true,
	})
	id := ids[0]

	inst, err := svc.SelfReport(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.SelfReported {
		t.Fatal("confirmed installment was marked self reported")
	}
	if len(notifier.events) != 0 {
		t.Fatal("confirmed installment emitted an event")
	}
}

func TestSelfReportAllSkipsReportedAndConfirmed(t *testing.T) {
	svc, repo, notifier, storeID := installmentFixture(t)
	paymentID, _ := seedInstallments(repo, storeID,
		entity.Installment{DueDate: date(2025, time.March, 10), Value: decimal.RequireFromString("100.00"), ConfirmedPaid: true},
		entity.Installment{DueDate: date(2025, time.April, 10), Value: decimal.RequireFromString("100.00"), SelfReported: true},
		entity.Installment{DueDate: date(2025, time.May, 10), Value: decimal.RequireFromString("100.00")},
	)

	reported, err := svc.SelfReportAll(context.Background(), paymentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reported != 1 {
		t.Fatalf("reported = %d, want 1", reported)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("got %d events, want 1", len(notifier.events))
	}
}

func TestConfirmDefaultsPaidAmountToValueNetOfDiscount(t *testing.T) {
	svc, repo, _, storeID := installmentFixture(t)
	_, ids := seedInstallments(repo, storeID, entity.Installment{
		DueDate: date(2025, time.March, 10),
		Value:   decimal.RequireFromString("100.00"),
	})
	id := ids[0]

	paidOn := time.Date(2025, time.March, 8, 14, 30, 0, 0, time.UTC)
	inst, err := svc.Confirm(context.Background(), id, decimal.Zero, decimal.RequireFromString("5.00"), paidOn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !inst.ConfirmedPaid {
		t.Fatal("installment not confirmed")
	}
	if !inst.PaidAmount.Equal(decimal.RequireFromString("95.00")) {
		t.Errorf("paid amount = %s, want 95.00", inst.PaidAmount)
	}
	if inst.PaymentDate == nil || !inst.PaymentDate.Equal(date(2025, time.March, 8)) {
		t.Errorf("payment date = %v, want 2025-03-08", inst.PaymentDate)
	}
}

func TestConfirmRejectsDoubleConfirmation(t *testing.T) {
	svc, repo, _, storeID := installmentFixture(t)
	_, ids := seedInstallments(repo, storeID, entity.Installment{
		DueDate:       date(2025, time.March, 10),
		Value:         decimal.RequireFromString("100.00"),
		ConfirmedPaid: true,
	})
	id := ids[0]

	_, err := svc.Confirm(context.Background(), id, decimal.Zero, decimal.Zero, time.Now())
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
}

func TestConfirmRejectsNegativeAmounts(t *testing.T) {
	svc, repo, _, storeID := installmentFixture(t)
	_, ids := seedInstallments(repo, storeID, entity.Installment{
		DueDate: date(2025, time.March, 10),
		Value:   decimal.RequireFromString("100.00"),
	})
	id := ids[0]

	_, err := svc.Confirm(context.Background(), id, decimal.RequireFromString("-1.00"), decimal.Zero, time.Now())
	if err == nil {
		t.Fatal("expected error for negative paid amount")
	}
}

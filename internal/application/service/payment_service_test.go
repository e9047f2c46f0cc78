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

func (f *fakeMethodRepo) GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error) {
	for _, m := range f.methods {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMethodRepo) Create(ctx context.Context, method *entity.PaymentMethod) error {
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	f.methods[method.ID] = method
	return nil
}

func paymentEnv(t *testing.T) (*PaymentService, *entity.Payment, *fakeInstallmentRepo, *fakeMethodRepo) {
	t.Helper()

	method := &entity.PaymentMethod{ID: uuid.New(), Name: "CredFácil", SupportsInstallments: true, Financing: true}
	payment := &entity.Payment{
		ID:               uuid.New(),
		SaleID:           uuid.New(),
		StoreID:          uuid.New(),
		MethodID:         method.ID,
		Method:           *method,
		Total:            decimal.RequireFromString("400.00"),
		InstallmentCount: 4,
		FirstDueDate:     date(2025, time.February, 10),
	}

	installmentRepo := newFakeInstallmentRepo()
	paymentRepo := newFakePaymentRepo(payment)
	methodRepo := &fakeMethodRepo{methods: map[uuid.UUID]*entity.PaymentMethod{method.ID: method}}
	store := &entity.Store{ID: payment.StoreID, Settings: entity.DefaultStoreSettings()}

	installmentSvc := NewInstallmentService(installmentRepo, paymentRepo, nil, newFakeStoreRepo(store), &fakeNotifier{})
	svc := NewPaymentService(paymentRepo, methodRepo, installmentSvc, fakeTxManager{})
	return svc, payment, installmentRepo, methodRepo
}

func TestUpdatePaymentRegeneratesOnCoreTermChange(t *testing.T) {
	svc, payment, installmentRepo, _ := paymentEnv(t)

	count := 6
	updated, err := svc.UpdatePayment(context.Background(), payment.ID, &UpdatePaymentInput{
		InstallmentCount: &count,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.InstallmentCount != 6 {
		t.Errorf("installment count = %d, want 6", updated.InstallmentCount)
	}
	if len(installmentRepo.deleted) != 1 {
		t.Fatal("old schedule not deleted")
	}
	rows := installmentRepo.byPayment[payment.ID]
	if len(rows) != 6 {
		t.Fatalf("got %d installments, want 6", len(rows))
	}
	// 400 / 6 rounds to 66.67
	if !rows[0].Value.Equal(decimal.RequireFromString("66.67")) {
		t.Errorf("installment value = %s, want 66.67", rows[0].Value)
	}
}

func TestUpdatePaymentFlagChangesKeepSchedule(t *testing.T) {
	svc, payment, installmentRepo, _ := paymentEnv(t)

	blocked := true
	pct := decimal.RequireFromString("5.00")
	updated, err := svc.UpdatePayment(context.Background(), payment.ID, &UpdatePaymentInput{
		Blocked:     &blocked,
		DiscountPct: &pct,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !updated.Blocked {
		t.Error("blocked flag not set")
	}
	if len(installmentRepo.deleted) != 0 || len(installmentRepo.created) != 0 {
		t.Fatal("flag-only update touched the schedule")
	}
}

func TestUpdatePaymentRejectsSettled(t *testing.T) {
	svc, payment, _, _ := paymentEnv(t)
	payment.Settled = true

	blocked := true
	_, err := svc.UpdatePayment(context.Background(), payment.ID, &UpdatePaymentInput{Blocked: &blocked})
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
}

func TestUpdatePaymentValidatesInput(t *testing.T) {
	svc, payment, _, _ := paymentEnv(t)

	zero := decimal.Zero
	if _, err := svc.UpdatePayment(context.Background(), payment.ID, &UpdatePaymentInput{Total: &zero}); err == nil {
		t.Fatal("expected error for non-positive total")
	}

	count := 0
	if _, err := svc.UpdatePayment(context.Background(), payment.ID, &UpdatePaymentInput{InstallmentCount: &count}); err == nil {
		t.Fatal("expected error for zero installment count")
	}
}

func TestSetBlockedOnlyFlipsFlag(t *testing.T) {
	svc, payment, installmentRepo, _ := paymentEnv(t)

	updated, err := svc.SetBlocked(context.Background(), payment.ID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Blocked {
		t.Error("blocked flag not set")
	}
	if len(installmentRepo.deleted) != 0 {
		t.Fatal("blocking regenerated the schedule")
	}
}

func TestCreateMethodRejectsDuplicateName(t *testing.T) {
	svc, _, _, methodRepo := paymentEnv(t)

	method, err := svc.CreateMethod(context.Background(), &CreateMethodInput{Name: "Pix", CountsInRegister: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if methodRepo.methods[method.ID] == nil {
		t.Fatal("method not persisted")
	}

	_, err = svc.CreateMethod(context.Background(), &CreateMethodInput{Name: "Pix"})
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
}

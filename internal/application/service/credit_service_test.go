package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/enum"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

type fakeCreditRepo struct {
	repository.CreditApplicationRepository
	applications map[uuid.UUID]*entity.CreditApplication
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{applications: make(map[uuid.UUID]*entity.CreditApplication)}
}

func (f *fakeCreditRepo) Create(ctx context.Context, application *entity.CreditApplication) error {
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	application.CreatedAt = time.Now()
	f.applications[application.ID] = application
	return nil
}

func (f *fakeCreditRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditApplication, error) {
	return f.applications[id], nil
}

func (f *fakeCreditRepo) Update(ctx context.Context, application *entity.CreditApplication) error {
	f.applications[application.ID] = application
	return nil
}

func (f *fakeCreditRepo) GetLatestByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CreditApplication, error) {
	var latest *entity.CreditApplication
	for _, a := range f.applications {
		if a.CustomerID != customerID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	return latest, nil
}

func creditEnv(t *testing.T) (*CreditService, *fakeCreditRepo, *saleEnv) {
	t.Helper()
	env := newSaleEnv(t)
	creditRepo := newFakeCreditRepo()
	svc := NewCreditService(
		creditRepo,
		&fakeCustomerRepo{customers: map[uuid.UUID]*entity.Customer{env.customer.ID: env.customer}},
		&fakeProductRepo{products: map[uuid.UUID]*entity.Product{env.phone.ID: env.phone, env.accessory.ID: env.accessory}},
		&fakeMethodRepo{methods: map[uuid.UUID]*entity.PaymentMethod{env.cash.ID: env.cash, env.financing.ID: env.financing}},
		env.svc,
	)
	return svc, creditRepo, env
}

func TestApplyRejectsSecondOpenApplication(t *testing.T) {
	svc, _, env := creditEnv(t)

	first, err := svc.Apply(env.ctx, env.customer.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Status != enum.CreditStatusUnderReview {
		t.Fatalf("status = %v, want under review", first.Status)
	}

	_, err = svc.Apply(env.ctx, env.customer.ID, nil)
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
}

func TestReviewResolvesApplication(t *testing.T) {
	svc, _, env := creditEnv(t)
	application, err := svc.Apply(env.ctx, env.customer.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reviewerID := uuid.New()
	reviewed, err := svc.Review(env.ctx, application.ID, reviewerID, enum.CreditStatusApproved, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reviewed.Status != enum.CreditStatusApproved {
		t.Errorf("status = %v, want approved", reviewed.Status)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != reviewerID {
		t.Error("reviewer not recorded")
	}
	if reviewed.ReviewedAt == nil {
		t.Error("review time not recorded")
	}

	// Resolved applications cannot be reviewed again
	_, err = svc.Review(env.ctx, application.ID, reviewerID, enum.CreditStatusRejected, nil)
	if err == nil {
		t.Fatal("expected error reviewing a resolved application")
	}
}

func TestReviewRejectsUnderReviewDecision(t *testing.T) {
	svc, _, env := creditEnv(t)
	application, err := svc.Apply(env.ctx, env.customer.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Review(env.ctx, application.ID, uuid.New(), enum.CreditStatusUnderReview, nil)
	if err == nil {
		t.Fatal("expected error for under-review decision")
	}
}

func TestConvertBuildsDownPaymentAndFinancedLegs(t *testing.T) {
	svc, creditRepo, env := creditEnv(t)
	env.phone.DownPayment = decimal.RequireFromString("150.00")
	env.phone.Plan4Price = decimal.RequireFromString("1050.00")

	application := &entity.CreditApplication{
		StoreID:    env.store.ID,
		CustomerID: env.customer.ID,
		Status:     enum.CreditStatusApproved,
	}
	if err := creditRepo.Create(context.Background(), application); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sale, err := svc.Convert(env.ctx, application.ID, &ConvertInput{
		SellerID:         uuid.New(),
		ProductID:        env.phone.ID,
		SerialNumber:     strPtr("IMEI-1"),
		InstallmentCount: 4,
		AnchorDay:        10,
		DownMethodID:     env.cash.ID,
		FinanceMethodID:  env.financing.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payments, err := env.payments.ListBySaleID(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("got %d payment legs, want 2", len(payments))
	}
	for _, p := range payments {
		switch p.MethodID {
		case env.cash.ID:
			if !p.Total.Equal(env.phone.DownPayment) {
				t.Errorf("down payment total = %s, want %s", p.Total, env.phone.DownPayment)
			}
			if p.InstallmentCount != 1 {
				t.Errorf("down payment count = %d, want 1", p.InstallmentCount)
			}
		case env.financing.ID:
			if !p.Total.Equal(env.phone.Plan4Price) {
				t.Errorf("financed total = %s, want %s", p.Total, env.phone.Plan4Price)
			}
			if p.InstallmentCount != 4 {
				t.Errorf("financed count = %d, want 4", p.InstallmentCount)
			}
		default:
			t.Errorf("unexpected payment method %s", p.MethodID)
		}
	}

	if !env.serials.units["IMEI-1"].Sold {
		t.Error("serial unit not consumed by conversion")
	}
}

func TestConvertRequiresApprovedApplication(t *testing.T) {
	svc, creditRepo, env := creditEnv(t)
	env.phone.Plan4Price = decimal.RequireFromString("1050.00")

	application := &entity.CreditApplication{
		StoreID:    env.store.ID,
		CustomerID: env.customer.ID,
		Status:     enum.CreditStatusUnderReview,
	}
	if err := creditRepo.Create(context.Background(), application); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Convert(env.ctx, application.ID, &ConvertInput{
		SellerID:         uuid.New(),
		ProductID:        env.phone.ID,
		SerialNumber:     strPtr("IMEI-1"),
		InstallmentCount: 4,
		DownMethodID:     env.cash.ID,
		FinanceMethodID:  env.financing.ID,
	})
	if err == nil {
		t.Fatal("expected error converting an unapproved application")
	}
}

func TestConvertRequiresPlanPrice(t *testing.T) {
	svc, creditRepo, env := creditEnv(t)

	application := &entity.CreditApplication{
		StoreID:    env.store.ID,
		CustomerID: env.customer.ID,
		Status:     enum.CreditStatusApproved,
	}
	if err := creditRepo.Create(context.Background(), application); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The phone has no 6-installment plan configured
	_, err := svc.Convert(env.ctx, application.ID, &ConvertInput{
		SellerID:         uuid.New(),
		ProductID:        env.phone.ID,
		SerialNumber:     strPtr("IMEI-1"),
		InstallmentCount: 6,
		DownMethodID:     env.cash.ID,
		FinanceMethodID:  env.financing.ID,
	})
	if err == nil {
		t.Fatal("expected error for missing plan price")
	}
}

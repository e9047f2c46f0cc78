package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/enum"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePaymentRepo struct {
	repository.PaymentRepository
	payments map[uuid.UUID]*entity.Payment
	updated  []*entity.Payment
}

func newFakePaymentRepo(payments ...*entity.Payment) *fakePaymentRepo {
	f := &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
	for _, p := range payments {
		f.payments[p.ID] = p
	}
	return f
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return f.payments[id], nil
}

func (f *fakePaymentRepo) GetWithInstallments(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return f.payments[id], nil
}

func (f *fakePaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	f.payments[payment.ID] = payment
	f.updated = append(f.updated, payment)
	return nil
}

type fakeInstallmentRepo struct {
	repository.InstallmentRepository
	byPayment map[uuid.UUID][]entity.Installment
	updated   map[uuid.UUID]entity.Installment
	deleted   []uuid.UUID
	created   [][]entity.Installment
}

func newFakeInstallmentRepo() *fakeInstallmentRepo {
	return &fakeInstallmentRepo{
		byPayment: make(map[uuid.UUID][]entity.Installment),
		updated:   make(map[uuid.UUID]entity.Installment),
	}
}

func (f *fakeInstallmentRepo) Update(ctx context.Context, inst *entity.Installment) error {
	f.updated[inst.ID] = *inst
	return nil
}

func (f *fakeInstallmentRepo) DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) error {
	f.deleted = append(f.deleted, paymentID)
	delete(f.byPayment, paymentID)
	return nil
}

func (f *fakeInstallmentRepo) CreateBatch(ctx context.Context, installments []entity.Installment) error {
	for i := range installments {
		if installments[i].ID == uuid.Nil {
			installments[i].ID = uuid.New()
		}
	}
	f.created = append(f.created, installments)
	if len(installments) > 0 {
		pid := installments[0].PaymentID
		f.byPayment[pid] = append(f.byPayment[pid], installments...)
	}
	return nil
}

func (f *fakeInstallmentRepo) ListByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]entity.Installment, error) {
	return f.byPayment[paymentID], nil
}

func (f *fakeInstallmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Installment, error) {
	if inst, ok := f.updated[id]; ok {
		return &inst, nil
	}
	for _, list := range f.byPayment {
		for i := range list {
			if list[i].ID == id {
				return &list[i], nil
			}
		}
	}
	return nil, nil
}

type fakeStoreRepo struct {
	repository.StoreRepository
	stores map[uuid.UUID]*entity.Store
}

func newFakeStoreRepo(stores ...*entity.Store) *fakeStoreRepo {
	f := &fakeStoreRepo{stores: make(map[uuid.UUID]*entity.Store)}
	for _, s := range stores {
		f.stores[s.ID] = s
	}
	return f
}

func (f *fakeStoreRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	return f.stores[id], nil
}

func settlementFixture(t *testing.T, count int, values []string, confirmed []bool) (*SettlementService, *entity.Payment, *fakePaymentRepo, *fakeInstallmentRepo) {
	t.Helper()

	store := &entity.Store{
		ID:   uuid.New(),
		Name: "Loja Centro",
		Settings: entity.StoreSettings{
			SettlementDiscountPct4: decimal.NewFromInt(25),
			SettlementDiscountPct6: decimal.RequireFromString("33.33"),
			SettlementDiscountPct8: decimal.NewFromInt(20),
		},
	}

	payment := &entity.Payment{
		ID:               uuid.New(),
		SaleID:           uuid.New(),
		StoreID:          store.ID,
		MethodID:         uuid.New(),
		InstallmentCount: count,
		FirstDueDate:     date(2025, time.February, 10),
	}
	total := decimal.Zero
	for i, v := range values {
		value := decimal.RequireFromString(v)
		total = total.Add(value)
		payment.Installments = append(payment.Installments, entity.Installment{
			ID:            uuid.New(),
			PaymentID:     payment.ID,
			StoreID:       store.ID,
			Number:        i + 1,
			DueDate:       InstallmentDueDate(payment.FirstDueDate, i+1),
			Value:         value,
			ConfirmedPaid: confirmed[i],
		})
	}
	payment.Total = total

	paymentRepo := newFakePaymentRepo(payment)
	installmentRepo := newFakeInstallmentRepo()
	svc := NewSettlementService(paymentRepo, installmentRepo, newFakeStoreRepo(store), fakeTxManager{})
	return svc, payment, paymentRepo, installmentRepo
}

func TestQuoteDistributesProportionally(t *testing.T) {
	svc, payment, paymentRepo, installmentRepo := settlementFixture(t,
		4,
		[]string{"100.00", "100.00", "100.00"},
		[]bool{false, false, false},
	)

	quote, err := svc.Quote(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !quote.Outstanding.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("outstanding = %s, want 300.00", quote.Outstanding)
	}
	if !quote.DiscountPct.Equal(decimal.NewFromInt(25)) {
		t.Errorf("discount pct = %s, want 25", quote.DiscountPct)
	}
	if !quote.DiscountedTotal.Equal(decimal.RequireFromString("225.00")) {
		t.Errorf("discounted total = %s, want 225.00", quote.DiscountedTotal)
	}
	for _, cut := range quote.Installments {
		if !cut.NewValue.Equal(decimal.RequireFromString("75.00")) {
			t.Errorf("installment %d new value = %s, want 75.00", cut.Number, cut.NewValue)
		}
	}

	// A quote must not write anything
	if len(paymentRepo.updated) != 0 || len(installmentRepo.updated) != 0 {
		t.Fatal("quote performed writes")
	}
}

func TestQuoteLastInstallmentAbsorbsRemainder(t *testing.T) {
	svc, payment, _, _ := settlementFixture(t,
		6,
		[]string{"10.00", "10.00", "10.00"},
		[]bool{false, false, false},
	)

	quote, err := svc.Quote(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !quote.DiscountedTotal.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("discounted total = %s, want 20.00", quote.DiscountedTotal)
	}

	wants := []string{"6.67", "6.67", "6.66"}
	sum := decimal.Zero
	for i, cut := range quote.Installments {
		if !cut.NewValue.Equal(decimal.RequireFromString(wants[i])) {
			t.Errorf("installment %d new value = %s, want %s", cut.Number, cut.NewValue, wants[i])
		}
		sum = sum.Add(cut.NewValue)
	}
	if !sum.Equal(quote.DiscountedTotal) {
		t.Errorf("cuts sum to %s, want %s", sum, quote.DiscountedTotal)
	}
}

func TestQuoteSkipsConfirmedInstallments(t *testing.T) {
	svc, payment, _, _ := settlementFixture(t,
		4,
		[]string{"100.00", "100.00", "100.00", "100.00"},
		[]bool{true, false, false, false},
	)

	quote, err := svc.Quote(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !quote.Outstanding.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("outstanding = %s, want 300.00", quote.Outstanding)
	}
	if len(quote.Installments) != 3 {
		t.Fatalf("got %d cuts, want 3", len(quote.Installments))
	}
	for _, cut := range quote.Installments {
		if cut.InstallmentID == payment.Installments[0].ID {
			t.Fatal("confirmed installment received a cut")
		}
	}
}

func TestQuoteFailsWhenNothingOutstanding(t *testing.T) {
	svc, payment, _, _ := settlementFixture(t,
		4,
		[]string{"100.00", "100.00"},
		[]bool{true, true},
	)

	_, err := svc.Quote(context.Background(), payment.ID)
	if !errors.Is(err, apperror.ErrSettlementInconsistency) {
		t.Fatalf("expected ErrSettlementInconsistency, got %v", err)
	}
}

func TestSettleAppliesDiscountsAndFlagsPayment(t *testing.T) {
	svc, payment, paymentRepo, installmentRepo := settlementFixture(t,
		4,
		[]string{"100.00", "100.00", "100.00"},
		[]bool{false, false, false},
	)

	quote, err := svc.Settle(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, cut := range quote.Installments {
		inst, ok := installmentRepo.updated[cut.InstallmentID]
		if !ok {
			t.Fatalf("installment %d not updated", cut.Number)
		}
		want := cut.OldValue.Sub(cut.NewValue)
		if !inst.Discount.Equal(want) {
			t.Errorf("installment %d discount = %s, want %s", cut.Number, inst.Discount, want)
		}
		if !inst.ConfirmedPaid {
			t.Errorf("installment %d not confirmed paid", cut.Number)
		}
		if !inst.PaidAmount.Equal(cut.NewValue) {
			t.Errorf("installment %d paid amount = %s, want %s", cut.Number, inst.PaidAmount, cut.NewValue)
		}
		if inst.PaymentDate == nil {
			t.Errorf("installment %d payment date not set", cut.Number)
		}
		if got := inst.Status(date(2099, time.January, 1)); got != enum.InstallmentStatusPaid {
			t.Errorf("installment %d status = %s, want Paid", cut.Number, got)
		}
		if !inst.Outstanding().IsZero() {
			t.Errorf("installment %d still outstanding %s after settle", cut.Number, inst.Outstanding())
		}
	}

	if len(paymentRepo.updated) != 1 {
		t.Fatalf("payment updated %d times, want 1", len(paymentRepo.updated))
	}
	got := paymentRepo.updated[0]
	if !got.Settled {
		t.Error("payment not flagged settled")
	}
	if !got.DiscountPct.Equal(decimal.NewFromInt(25)) {
		t.Errorf("payment discount pct = %s, want 25", got.DiscountPct)
	}
}

func TestSettleRejectsAlreadySettledPayment(t *testing.T) {
	svc, payment, _, installmentRepo := settlementFixture(t,
		4,
		[]string{"100.00", "100.00"},
		[]bool{false, false},
	)
	payment.Settled = true

	_, err := svc.Settle(context.Background(), payment.ID)
	appErr, ok := err.(*apperror.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != 400 {
		t.Errorf("code = %d, want 400", appErr.Code)
	}
	if len(installmentRepo.updated) != 0 {
		t.Fatal("installments were updated for a settled payment")
	}
}

func TestSettleUsesZeroDiscountForUnknownPlan(t *testing.T) {
	svc, payment, _, _ := settlementFixture(t,
		3,
		[]string{"50.00", "50.00", "50.00"},
		[]bool{false, false, false},
	)

	quote, err := svc.Settle(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.DiscountPct.IsZero() {
		t.Errorf("discount pct = %s, want 0", quote.DiscountPct)
	}
	if !quote.DiscountedTotal.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("discounted total = %s, want 150.00", quote.DiscountedTotal)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

func (f *fakeCustomerRepo) FindByCPFAndBirthDate(ctx context.Context, cpf string, birthDate time.Time) (*entity.Customer, error) {
	for _, c := range f.customers {
		cy, cm, cd := c.BirthDate.Date()
		by, bm, bd := birthDate.Date()
		if c.CPF == cpf && cy == by && cm == bm && cd == bd {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range f.sales {
		if params.CustomerID != nil && s.CustomerID != *params.CustomerID {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInstallmentRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Installment, error) {
	var out []entity.Installment
	for _, rows := range f.byPayment {
		out = append(out, rows...)
	}
	return out, nil
}

type memCache struct {
	data    map[string][]byte
	deletes int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	c.deletes++
	return nil
}

type lookupEnv struct {
	svc      *LookupService
	cache    *memCache
	customer *entity.Customer
	payment  *entity.Payment
	rows     []entity.Installment

	payments     *fakePaymentRepo
	installments *fakeInstallmentRepo
	notifier     *fakeNotifier
}

// newLookupEnv seeds one customer with a financed sale: installment 1
// confirmed, installment 2 overdue, installments 3 and 4 upcoming.
func newLookupEnv(t *testing.T) *lookupEnv {
	t.Helper()

	store := &entity.Store{ID: uuid.New(), Name: "Loja Centro", Settings: entity.DefaultStoreSettings()}
	customer := &entity.Customer{
		ID:        uuid.New(),
		StoreID:   store.ID,
		Name:      "Maria Silva",
		CPF:       "52998224725",
		BirthDate: date(1990, time.May, 20),
	}

	financing := entity.PaymentMethod{ID: uuid.New(), Name: "CredFácil", SupportsInstallments: true, Financing: true}
	sale := &entity.Sale{ID: uuid.New(), StoreID: store.ID, CustomerID: customer.ID, SaleDate: time.Now()}
	payment := &entity.Payment{
		ID:               uuid.New(),
		SaleID:           sale.ID,
		StoreID:          store.ID,
		MethodID:         financing.ID,
		Method:           financing,
		Total:            decimal.RequireFromString("400.00"),
		InstallmentCount: 4,
		FirstDueDate:     time.Now().AddDate(0, -2, 0),
	}

	now := time.Now()
	rows := []entity.Installment{
		{ID: uuid.New(), PaymentID: payment.ID, StoreID: store.ID, Number: 1, DueDate: now.AddDate(0, 0, -40), Value: decimal.RequireFromString("100.00"), PaidAmount: decimal.RequireFromString("100.00"), ConfirmedPaid: true},
		{ID: uuid.New(), PaymentID: payment.ID, StoreID: store.ID, Number: 2, DueDate: now.AddDate(0, 0, -10), Value: decimal.RequireFromString("100.00")},
		{ID: uuid.New(), PaymentID: payment.ID, StoreID: store.ID, Number: 3, DueDate: now.AddDate(0, 0, 20), Value: decimal.RequireFromString("100.00")},
		{ID: uuid.New(), PaymentID: payment.ID, StoreID: store.ID, Number: 4, DueDate: now.AddDate(0, 0, 50), Value: decimal.RequireFromString("100.00")},
	}
	payment.Installments = rows

	saleRepo := newFakeSaleRepo()
	saleRepo.sales[sale.ID] = sale
	paymentRepo := newFakePaymentRepo(payment)
	installmentRepo := newFakeInstallmentRepo()
	installmentRepo.byPayment[payment.ID] = rows
	customerRepo := &fakeCustomerRepo{customers: map[uuid.UUID]*entity.Customer{customer.ID: customer}}
	storeRepo := newFakeStoreRepo(store)
	notifier := &fakeNotifier{}
	c := newMemCache()

	installmentSvc := NewInstallmentService(installmentRepo, paymentRepo, saleRepo, storeRepo, notifier)
	settlementSvc := NewSettlementService(paymentRepo, installmentRepo, storeRepo, fakeTxManager{})
	svc := NewLookupService(customerRepo, saleRepo, paymentRepo, installmentRepo, installmentSvc, settlementSvc, c)

	return &lookupEnv{
		svc:          svc,
		cache:        c,
		customer:     customer,
		payment:      payment,
		rows:         rows,
		payments:     paymentRepo,
		installments: installmentRepo,
		notifier:     notifier,
	}
}

func TestLookupAssemblesPaymentBook(t *testing.T) {
	env := newLookupEnv(t)

	result, err := env.svc.Lookup(context.Background(), env.customer.CPF, env.customer.BirthDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CustomerName != "Maria Silva" {
		t.Errorf("customer name = %q", result.CustomerName)
	}
	if !result.Outstanding.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("outstanding = %s, want 300.00", result.Outstanding)
	}
	if result.OverdueCount != 1 {
		t.Errorf("overdue count = %d, want 1", result.OverdueCount)
	}
	if result.NextDueDate == nil || !result.NextDueDate.Equal(env.rows[1].DueDate) {
		t.Errorf("next due date = %v, want the overdue installment's date", result.NextDueDate)
	}

	if len(result.Payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(result.Payments))
	}
	view := result.Payments[0]
	if len(view.Installments) != 4 {
		t.Errorf("got %d installments, want 4", len(view.Installments))
	}
	if view.Settlement == nil {
		t.Fatal("settlement quote missing")
	}
	// Default 4-installment plan discount is 10 percent over 300.00
	if !view.Settlement.DiscountedTotal.Equal(decimal.RequireFromString("270.00")) {
		t.Errorf("settlement total = %s, want 270.00", view.Settlement.DiscountedTotal)
	}
}

func TestLookupCachesResult(t *testing.T) {
	env := newLookupEnv(t)

	first, err := env.svc.Lookup(context.Background(), env.customer.CPF, env.customer.BirthDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.cache.data) != 1 {
		t.Fatalf("cache holds %d entries, want 1", len(env.cache.data))
	}

	// A change invisible to the cache proves the second read is served
	// from it
	env.customer.Name = "Renamed"
	second, err := env.svc.Lookup(context.Background(), env.customer.CPF, env.customer.BirthDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.CustomerName != first.CustomerName {
		t.Errorf("second lookup bypassed the cache: %q", second.CustomerName)
	}
}

func TestLookupRejectsUnknownCustomer(t *testing.T) {
	env := newLookupEnv(t)

	_, err := env.svc.Lookup(context.Background(), env.customer.CPF, date(1991, time.May, 20))
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 404 {
		t.Fatalf("expected 404 AppError, got %v", err)
	}
}

func TestSelfReportChecksOwnershipAndInvalidatesCache(t *testing.T) {
	env := newLookupEnv(t)

	// Warm the cache
	if _, err := env.svc.Lookup(context.Background(), env.customer.CPF, env.customer.BirthDate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An installment of someone else's payment
	_, err := env.svc.SelfReport(context.Background(), env.customer.CPF, env.customer.BirthDate, uuid.New())
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	inst, err := env.svc.SelfReport(context.Background(), env.customer.CPF, env.customer.BirthDate, env.rows[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inst.SelfReported {
		t.Fatal("installment not marked self reported")
	}
	if len(env.cache.data) != 0 {
		t.Error("cache entry not invalidated")
	}
	if len(env.notifier.events) != 1 || env.notifier.events[0].Name != EventInstallmentSelfReported {
		t.Fatalf("events = %v, want one self-report event", env.notifier.events)
	}
}

func TestSelfReportAllRejectsForeignPayment(t *testing.T) {
	env := newLookupEnv(t)

	other := &entity.Customer{
		ID:        uuid.New(),
		StoreID:   env.customer.StoreID,
		Name:      "José Souza",
		CPF:       "15350946056",
		BirthDate: date(1985, time.January, 2),
	}
	foreignSale := &entity.Sale{ID: uuid.New(), StoreID: env.customer.StoreID, CustomerID: other.ID}
	foreignPayment := &entity.Payment{ID: uuid.New(), SaleID: foreignSale.ID, StoreID: env.customer.StoreID}

	saleRepo := newFakeSaleRepo()
	saleRepo.sales[foreignSale.ID] = foreignSale
	paymentRepo := newFakePaymentRepo(foreignPayment)
	installmentRepo := newFakeInstallmentRepo()
	storeRepo := newFakeStoreRepo(&entity.Store{ID: env.customer.StoreID})
	customerRepo := &fakeCustomerRepo{customers: map[uuid.UUID]*entity.Customer{env.customer.ID: env.customer}}

	installmentSvc := NewInstallmentService(installmentRepo, paymentRepo, saleRepo, storeRepo, &fakeNotifier{})
	settlementSvc := NewSettlementService(paymentRepo, installmentRepo, storeRepo, fakeTxManager{})
	svc := NewLookupService(customerRepo, saleRepo, paymentRepo, installmentRepo, installmentSvc, settlementSvc, newMemCache())

	_, err := svc.SelfReportAll(context.Background(), env.customer.CPF, env.customer.BirthDate, foreignPayment.ID)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSelfReportAllReportsOpenInstallments(t *testing.T) {
	env := newLookupEnv(t)

	reported, err := env.svc.SelfReportAll(context.Background(), env.customer.CPF, env.customer.BirthDate, env.payment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Installment 1 is confirmed; the other three are open
	if reported != 3 {
		t.Fatalf("reported = %d, want 3", reported)
	}
}

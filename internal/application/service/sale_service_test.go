package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) ListBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range f.payments {
		if p.SaleID == saleID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeSaleRepo struct {
	repository.SaleRepository
	sales map[uuid.UUID]*entity.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*entity.Sale)}
}

func (f *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	f.sales[sale.ID] = sale
	return nil
}

func (f *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return f.sales[id], nil
}

func (f *fakeSaleRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return f.sales[id], nil
}

func (f *fakeSaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	f.sales[sale.ID] = sale
	return nil
}

type fakeSaleLineRepo struct {
	repository.SaleLineRepository
	lines map[uuid.UUID]*entity.SaleLine
}

func newFakeSaleLineRepo() *fakeSaleLineRepo {
	return &fakeSaleLineRepo{lines: make(map[uuid.UUID]*entity.SaleLine)}
}

func (f *fakeSaleLineRepo) Create(ctx context.Context, line *entity.SaleLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	f.lines[line.ID] = line
	return nil
}

func (f *fakeSaleLineRepo) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleLine, error) {
	var out []entity.SaleLine
	for _, l := range f.lines {
		if l.SaleID == saleID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeSaleLineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.lines, id)
	return nil
}

func (f *fakeSaleLineRepo) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	for id, l := range f.lines {
		if l.SaleID == saleID {
			delete(f.lines, id)
		}
	}
	return nil
}

type fakeMethodRepo struct {
	repository.PaymentMethodRepository
	methods map[uuid.UUID]*entity.PaymentMethod
}

func (f *fakeMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	return f.methods[id], nil
}

type fakeStockRepo struct {
	repository.StockRepository
	quantities map[uuid.UUID]int
}

func (f *fakeStockRepo) Decrement(ctx context.Context, productID, storeID uuid.UUID, quantity int) error {
	if f.quantities[productID] < quantity {
		return apperror.ErrInsufficientStock
	}
	f.quantities[productID] -= quantity
	return nil
}

func (f *fakeStockRepo) Increment(ctx context.Context, productID, storeID uuid.UUID, quantity int) error {
	f.quantities[productID] += quantity
	return nil
}

type fakeSerialRepo struct {
	repository.SerialUnitRepository
	units map[string]*entity.SerialUnit
}

func (f *fakeSerialRepo) GetAvailableForUpdate(ctx context.Context, serial string, productID, storeID uuid.UUID) (*entity.SerialUnit, error) {
	unit, ok := f.units[serial]
	if !ok || unit.Sold || unit.ProductID != productID {
		return nil, apperror.ErrSerialUnavailable
	}
	return unit, nil
}

func (f *fakeSerialRepo) MarkSold(ctx context.Context, id uuid.UUID) error {
	for _, unit := range f.units {
		if unit.ID == id {
			unit.Sold = true
			return nil
		}
	}
	return apperror.ErrSerialUnavailable
}

func (f *fakeSerialRepo) Release(ctx context.Context, serial string, productID, storeID uuid.UUID) error {
	if unit, ok := f.units[serial]; ok {
		unit.Sold = false
	}
	return nil
}

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customers map[uuid.UUID]*entity.Customer
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return f.customers[id], nil
}

type fakeProductRepo struct {
	repository.ProductRepository
	products map[uuid.UUID]*entity.Product
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeRegisterRepo struct {
	repository.CashRegisterRepository
	open *entity.CashRegister
}

func (f *fakeRegisterRepo) GetOpenForDay(ctx context.Context, storeID uuid.UUID, day time.Time) (*entity.CashRegister, error) {
	return f.open, nil
}

// rollbackTxManager snapshots the mutable fakes before running the
// function and restores them when it fails, mimicking a database
// transaction rollback.
type rollbackTxManager struct {
	snapshot func() func()
}

func (m rollbackTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	restore := m.snapshot()
	if err := fn(ctx); err != nil {
		restore()
		return err
	}
	return nil
}

type saleEnv struct {
	svc       *SaleService
	ctx       context.Context
	store     *entity.Store
	customer  *entity.Customer
	phone     *entity.Product
	accessory *entity.Product
	cash      *entity.PaymentMethod
	financing *entity.PaymentMethod

	sales        *fakeSaleRepo
	lines        *fakeSaleLineRepo
	payments     *fakePaymentRepo
	installments *fakeInstallmentRepo
	stock        *fakeStockRepo
	serials      *fakeSerialRepo
	registers    *fakeRegisterRepo
	notifier     *fakeNotifier
}

func newSaleEnv(t *testing.T) *saleEnv {
	t.Helper()

	store := &entity.Store{ID: uuid.New(), Name: "Loja Centro", Settings: entity.DefaultStoreSettings()}
	customer := &entity.Customer{ID: uuid.New(), StoreID: store.ID, Name: "Maria Silva", CPF: "52998224725"}
	phone := &entity.Product{
		ID:             uuid.New(),
		Name:           "Galaxy A15",
		Code:           "GA15",
		RequiresSerial: true,
		DealerShare:    decimal.RequireFromString("30.00"),
	}
	accessory := &entity.Product{
		ID:          uuid.New(),
		Name:        "Capinha",
		Code:        "CAP1",
		DealerShare: decimal.RequireFromString("2.00"),
	}
	cash := &entity.PaymentMethod{ID: uuid.New(), Name: "Dinheiro", CountsInRegister: true}
	financing := &entity.PaymentMethod{ID: uuid.New(), Name: "CredFácil", SupportsInstallments: true, Financing: true}

	env := &saleEnv{
		store:     store,
		customer:  customer,
		phone:     phone,
		accessory: accessory,
		cash:      cash,
		financing: financing,

		sales:        newFakeSaleRepo(),
		lines:        newFakeSaleLineRepo(),
		payments:     newFakePaymentRepo(),
		installments: newFakeInstallmentRepo(),
		stock:        &fakeStockRepo{quantities: map[uuid.UUID]int{phone.ID: 2, accessory.ID: 5}},
		serials: &fakeSerialRepo{units: map[string]*entity.SerialUnit{
			"IMEI-1": {ID: uuid.New(), SerialNumber: "IMEI-1", ProductID: phone.ID, StoreID: store.ID},
			"IMEI-2": {ID: uuid.New(), SerialNumber: "IMEI-2", ProductID: phone.ID, StoreID: store.ID},
		}},
		registers: &fakeRegisterRepo{open: &entity.CashRegister{ID: uuid.New(), StoreID: store.ID}},
		notifier:  &fakeNotifier{},
	}

	txManager := rollbackTxManager{snapshot: func() func() {
		quantities := make(map[uuid.UUID]int, len(env.stock.quantities))
		for id, q := range env.stock.quantities {
			quantities[id] = q
		}
		sold := make(map[string]bool, len(env.serials.units))
		for serial, unit := range env.serials.units {
			sold[serial] = unit.Sold
		}
		lines := make(map[uuid.UUID]*entity.SaleLine, len(env.lines.lines))
		for id, l := range env.lines.lines {
			copied := *l
			lines[id] = &copied
		}
		return func() {
			env.stock.quantities = quantities
			for serial, wasSold := range sold {
				env.serials.units[serial].Sold = wasSold
			}
			env.lines.lines = lines
		}
	}}

	installmentSvc := NewInstallmentService(env.installments, env.payments, env.sales, newFakeStoreRepo(store), env.notifier)
	env.svc = NewSaleService(
		env.sales, env.lines, env.payments,
		&fakeMethodRepo{methods: map[uuid.UUID]*entity.PaymentMethod{cash.ID: cash, financing.ID: financing}},
		env.stock, env.serials,
		&fakeCustomerRepo{customers: map[uuid.UUID]*entity.Customer{customer.ID: customer}},
		&fakeProductRepo{products: map[uuid.UUID]*entity.Product{phone.ID: phone, accessory.ID: accessory}},
		env.registers, newFakeStoreRepo(store),
		installmentSvc, txManager, env.notifier,
	)
	env.ctx = infraRepo.WithStore(context.Background(), store.ID)
	return env
}

func strPtr(s string) *string { return &s }

func (env *saleEnv) createFinancedSale(t *testing.T) *entity.Sale {
	t.Helper()
	sale, err := env.svc.CreateSale(env.ctx, &CreateSaleInput{
		SellerID:   uuid.New(),
		CustomerID: env.customer.ID,
		SaleDate:   date(2025, time.February, 1),
		Lines: []SaleLineInput{
			{ProductID: env.phone.ID, SerialNumber: strPtr("IMEI-1"), UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 1},
			{ProductID: env.accessory.ID, UnitPrice: decimal.RequireFromString("25.00"), Quantity: 2},
		},
		Payments: []SalePaymentInput{
			{MethodID: env.cash.ID, Total: decimal.RequireFromString("200.00"), InstallmentCount: 1},
			{MethodID: env.financing.ID, Total: decimal.RequireFromString("1050.00"), InstallmentCount: 4, AnchorDay: 10},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sale
}

func TestCreateSaleConsumesStockAndSerial(t *testing.T) {
	env := newSaleEnv(t)
	sale := env.createFinancedSale(t)

	if env.stock.quantities[env.phone.ID] != 1 {
		t.Errorf("phone stock = %d, want 1", env.stock.quantities[env.phone.ID])
	}
	if env.stock.quantities[env.accessory.ID] != 3 {
		t.Errorf("accessory stock = %d, want 3", env.stock.quantities[env.accessory.ID])
	}
	if !env.serials.units["IMEI-1"].Sold {
		t.Error("serial unit not marked sold")
	}

	// 30.00 for the phone plus 2 x 2.00 for the accessories
	if !sale.DealerShare.Equal(decimal.RequireFromString("34.00")) {
		t.Errorf("dealer share = %s, want 34.00", sale.DealerShare)
	}

	if len(env.payments.payments) != 2 {
		t.Fatalf("got %d payments, want 2", len(env.payments.payments))
	}
	for _, p := range env.payments.payments {
		rows := env.installments.byPayment[p.ID]
		switch p.MethodID {
		case env.cash.ID:
			if len(rows) != 1 {
				t.Errorf("cash leg has %d installments, want 1", len(rows))
			}
			if !p.FirstDueDate.Equal(date(2025, time.February, 1)) {
				t.Errorf("cash leg first due = %s, want sale date", p.FirstDueDate)
			}
		case env.financing.ID:
			if len(rows) != 4 {
				t.Errorf("financing leg has %d installments, want 4", len(rows))
			}
			// Feb 1 with anchor 10: Mar 10 is the furthest fit
			if !p.FirstDueDate.Equal(date(2025, time.March, 10)) {
				t.Errorf("financing leg first due = %s, want 2025-03-10", p.FirstDueDate)
			}
		}
	}

	if len(env.notifier.events) != 1 || env.notifier.events[0].Name != EventSaleCreated {
		t.Fatalf("events = %v, want one sale-created event", env.notifier.events)
	}
}

func TestCreateSaleRequiresOpenRegister(t *testing.T) {
	env := newSaleEnv(t)
	env.registers.open = nil

	_, err := env.svc.CreateSale(env.ctx, &CreateSaleInput{
		SellerID:   uuid.New(),
		CustomerID: env.customer.ID,
		Lines:      []SaleLineInput{{ProductID: env.accessory.ID, UnitPrice: decimal.RequireFromString("25.00"), Quantity: 1}},
	})
	if !errors.Is(err, apperror.ErrRegisterClosed) {
		t.Fatalf("expected ErrRegisterClosed, got %v", err)
	}
}

func TestCreateSaleValidatesSerializedLines(t *testing.T) {
	env := newSaleEnv(t)

	// Serialized product without a serial number
	_, err := env.svc.CreateSale(env.ctx, &CreateSaleInput{
		SellerID:   uuid.New(),
		CustomerID: env.customer.ID,
		Lines:      []SaleLineInput{{ProductID: env.phone.ID, UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error for missing serial number")
	}

	// Serialized lines carry exactly one unit
	_, err = env.svc.CreateSale(env.ctx, &CreateSaleInput{
		SellerID:   uuid.New(),
		CustomerID: env.customer.ID,
		Lines:      []SaleLineInput{{ProductID: env.phone.ID, SerialNumber: strPtr("IMEI-1"), UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 2}},
	})
	if err == nil {
		t.Fatal("expected error for multi-unit serialized line")
	}
}

func TestCreateSaleRollsBackOnInsufficientStock(t *testing.T) {
	env := newSaleEnv(t)

	_, err := env.svc.CreateSale(env.ctx, &CreateSaleInput{
		SellerID:   uuid.New(),
		CustomerID: env.customer.ID,
		Lines: []SaleLineInput{
			{ProductID: env.phone.ID, SerialNumber: strPtr("IMEI-1"), UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 1},
			{ProductID: env.accessory.ID, UnitPrice: decimal.RequireFromString("25.00"), Quantity: 10},
		},
	})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The phone consumed before the failing line must be returned
	if env.stock.quantities[env.phone.ID] != 2 {
		t.Errorf("phone stock = %d, want 2 after rollback", env.stock.quantities[env.phone.ID])
	}
	if env.serials.units["IMEI-1"].Sold {
		t.Error("serial unit still sold after rollback")
	}
	if len(env.notifier.events) != 0 {
		t.Error("failed sale emitted an event")
	}
}

func TestCreateSaleRejectsUnavailableSerial(t *testing.T) {
	env := newSaleEnv(t)
	env.serials.units["IMEI-1"].Sold = true

	_, err := env.svc.CreateSale(env.ctx, &CreateSaleInput{
		SellerID:   uuid.New(),
		CustomerID: env.customer.ID,
		Lines:      []SaleLineInput{{ProductID: env.phone.ID, SerialNumber: strPtr("IMEI-1"), UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 1}},
	})
	if !errors.Is(err, apperror.ErrSerialUnavailable) {
		t.Fatalf("expected ErrSerialUnavailable, got %v", err)
	}
}

func TestCancelSaleKeepsStockAndDeactivatesPayments(t *testing.T) {
	env := newSaleEnv(t)
	sale := env.createFinancedSale(t)
	env.notifier.events = nil

	if err := env.svc.CancelSale(env.ctx, sale.ID, "cliente desistiu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := env.sales.sales[sale.ID]
	if !got.Canceled || got.CanceledAt == nil {
		t.Fatal("sale not marked canceled")
	}
	if !strings.Contains(got.AuditNote, "cliente desistiu") {
		t.Errorf("audit note = %q, want cancellation reason", got.AuditNote)
	}

	// Canceled goods re-enter stock through a manual flow, never here
	if env.stock.quantities[env.phone.ID] != 1 {
		t.Errorf("phone stock = %d, cancellation must not restore stock", env.stock.quantities[env.phone.ID])
	}
	if !env.serials.units["IMEI-1"].Sold {
		t.Error("cancellation must not release the serial unit")
	}

	for _, p := range env.payments.payments {
		if !p.Deactivated {
			t.Errorf("payment %s not deactivated", p.ID)
		}
	}

	if len(env.notifier.events) != 1 || env.notifier.events[0].Name != EventSaleCanceled {
		t.Fatalf("events = %v, want one sale-canceled event", env.notifier.events)
	}
}

func TestCancelSaleTwiceFails(t *testing.T) {
	env := newSaleEnv(t)
	sale := env.createFinancedSale(t)

	if err := env.svc.CancelSale(env.ctx, sale.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := env.svc.CancelSale(env.ctx, sale.ID, "")
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
}

func TestExchangeSaleSwapsSerialUnit(t *testing.T) {
	env := newSaleEnv(t)
	sale := env.createFinancedSale(t)

	var lineID uuid.UUID
	for _, l := range env.lines.lines {
		if l.ProductID == env.phone.ID {
			lineID = l.ID
		}
	}

	got, err := env.svc.ExchangeSale(env.ctx, sale.ID, lineID, env.phone.ID, strPtr("IMEI-2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.serials.units["IMEI-1"].Sold {
		t.Error("old serial unit not released")
	}
	if !env.serials.units["IMEI-2"].Sold {
		t.Error("new serial unit not marked sold")
	}
	if !got.Exchanged {
		t.Error("sale not flagged exchanged")
	}
	if !strings.Contains(got.AuditNote, "exchanged") {
		t.Errorf("audit note = %q, want exchange entry", got.AuditNote)
	}
	// Same product swapped in and out, net stock unchanged
	if env.stock.quantities[env.phone.ID] != 1 {
		t.Errorf("phone stock = %d, want 1", env.stock.quantities[env.phone.ID])
	}
}

func TestUpdateSaleRollsBackOnInsufficientStock(t *testing.T) {
	env := newSaleEnv(t)
	sale := env.createFinancedSale(t)

	_, err := env.svc.UpdateSale(env.ctx, sale.ID, &UpdateSaleInput{
		Lines: []SaleLineInput{
			{ProductID: env.accessory.ID, UnitPrice: decimal.RequireFromString("25.00"), Quantity: 1},
			{ProductID: env.accessory.ID, UnitPrice: decimal.RequireFromString("25.00"), Quantity: 10},
		},
	})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Releases and deletions done before the failing line must be undone
	if env.stock.quantities[env.phone.ID] != 1 {
		t.Errorf("phone stock = %d, want 1 after rollback", env.stock.quantities[env.phone.ID])
	}
	if env.stock.quantities[env.accessory.ID] != 3 {
		t.Errorf("accessory stock = %d, want 3 after rollback", env.stock.quantities[env.accessory.ID])
	}
	if !env.serials.units["IMEI-1"].Sold {
		t.Error("serial unit no longer sold after rollback")
	}

	lines, _ := env.lines.GetBySaleID(context.Background(), sale.ID)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want the original 2", len(lines))
	}
	var phoneLines, accessoryLines int
	for _, l := range lines {
		switch l.ProductID {
		case env.phone.ID:
			phoneLines++
		case env.accessory.ID:
			accessoryLines++
		}
	}
	if phoneLines != 1 || accessoryLines != 1 {
		t.Errorf("got %d phone and %d accessory lines, want 1 and 1", phoneLines, accessoryLines)
	}
}

func TestUpdateSaleReleasesOldLines(t *testing.T) {
	env := newSaleEnv(t)
	sale := env.createFinancedSale(t)

	got, err := env.svc.UpdateSale(env.ctx, sale.ID, &UpdateSaleInput{
		Lines: []SaleLineInput{
			{ProductID: env.accessory.ID, UnitPrice: decimal.RequireFromString("25.00"), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.stock.quantities[env.phone.ID] != 2 {
		t.Errorf("phone stock = %d, want 2 after release", env.stock.quantities[env.phone.ID])
	}
	if env.serials.units["IMEI-1"].Sold {
		t.Error("serial unit not released")
	}
	// 5 seeded, 2 consumed at creation, 2 returned, 1 consumed again
	if env.stock.quantities[env.accessory.ID] != 4 {
		t.Errorf("accessory stock = %d, want 4", env.stock.quantities[env.accessory.ID])
	}
	if !got.DealerShare.Equal(decimal.RequireFromString("2.00")) {
		t.Errorf("dealer share = %s, want 2.00", got.DealerShare)
	}

	lines, _ := env.lines.GetBySaleID(context.Background(), sale.ID)
	if len(lines) != 1 || lines[0].ProductID != env.accessory.ID {
		t.Fatalf("lines = %v, want single accessory line", lines)
	}
}

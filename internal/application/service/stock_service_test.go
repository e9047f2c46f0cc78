package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

func (f *fakeSerialRepo) Create(ctx context.Context, unit *entity.SerialUnit) error {
	if unit.ID == uuid.Nil {
		unit.ID = uuid.New()
	}
	f.units[unit.SerialNumber] = unit
	return nil
}

func (f *fakeSerialRepo) CountActiveDuplicates(ctx context.Context, serial string, productID, storeID uuid.UUID) (int64, error) {
	unit, ok := f.units[serial]
	if !ok || unit.ProductID != productID || unit.StoreID == storeID || unit.Sold || unit.Canceled {
		return 0, nil
	}
	return 1, nil
}

func stockEnv(t *testing.T, serialPolicy string) (*StockService, *fakeStockRepo, *fakeSerialRepo, *entity.Product, context.Context) {
	t.Helper()

	storeID := uuid.New()
	phone := &entity.Product{ID: uuid.New(), Name: "Galaxy A15", Code: "GA15", RequiresSerial: true}

	stockRepo := &fakeStockRepo{quantities: map[uuid.UUID]int{}}
	serialRepo := &fakeSerialRepo{units: map[string]*entity.SerialUnit{}}
	svc := NewStockService(
		stockRepo, serialRepo,
		&fakeProductRepo{products: map[uuid.UUID]*entity.Product{phone.ID: phone}},
		fakeTxManager{}, serialPolicy,
	)
	return svc, stockRepo, serialRepo, phone, infraRepo.WithStore(context.Background(), storeID)
}

func TestRegisterSerialUnitsRaisesStock(t *testing.T) {
	svc, stockRepo, serialRepo, phone, ctx := stockEnv(t, SerialPolicyWarn)

	units, err := svc.RegisterSerialUnits(ctx, phone.ID, []string{"IMEI-1", "IMEI-2", "IMEI-3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 3 {
		t.Fatalf("got %d units, want 3", len(units))
	}
	if stockRepo.quantities[phone.ID] != 3 {
		t.Errorf("stock = %d, want 3", stockRepo.quantities[phone.ID])
	}
	for _, serial := range []string{"IMEI-1", "IMEI-2", "IMEI-3"} {
		if _, ok := serialRepo.units[serial]; !ok {
			t.Errorf("serial %s not registered", serial)
		}
	}
}

func TestRegisterSerialUnitsWarnPolicyAcceptsCrossStoreDuplicate(t *testing.T) {
	svc, stockRepo, serialRepo, phone, ctx := stockEnv(t, SerialPolicyWarn)

	// Same serial active at another store
	serialRepo.units["IMEI-1"] = &entity.SerialUnit{
		ID:           uuid.New(),
		SerialNumber: "IMEI-1",
		ProductID:    phone.ID,
		StoreID:      uuid.New(),
	}

	units, err := svc.RegisterSerialUnits(ctx, phone.ID, []string{"IMEI-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	if stockRepo.quantities[phone.ID] != 1 {
		t.Errorf("stock = %d, want 1", stockRepo.quantities[phone.ID])
	}
}

func TestRegisterSerialUnitsRejectPolicyRefusesCrossStoreDuplicate(t *testing.T) {
	svc, stockRepo, serialRepo, phone, ctx := stockEnv(t, SerialPolicyReject)

	serialRepo.units["IMEI-1"] = &entity.SerialUnit{
		ID:           uuid.New(),
		SerialNumber: "IMEI-1",
		ProductID:    phone.ID,
		StoreID:      uuid.New(),
	}

	_, err := svc.RegisterSerialUnits(ctx, phone.ID, []string{"IMEI-1"})
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
	if stockRepo.quantities[phone.ID] != 0 {
		t.Errorf("stock = %d, rejected registration must not raise stock", stockRepo.quantities[phone.ID])
	}
}

func TestRegisterSerialUnitsRejectsNonSerializedProduct(t *testing.T) {
	svc, _, _, phone, ctx := stockEnv(t, SerialPolicyWarn)
	phone.RequiresSerial = false

	_, err := svc.RegisterSerialUnits(ctx, phone.ID, []string{"IMEI-1"})
	if err == nil {
		t.Fatal("expected error for non-serialized product")
	}
}

func TestAddStockRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _, phone, ctx := stockEnv(t, SerialPolicyWarn)

	if err := svc.AddStock(ctx, phone.ID, 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if err := svc.AddStock(ctx, phone.ID, -5); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestAddStockRequiresStoreContext(t *testing.T) {
	svc, _, _, phone, _ := stockEnv(t, SerialPolicyWarn)

	if err := svc.AddStock(context.Background(), phone.ID, 1); err == nil {
		t.Fatal("expected error without store context")
	}
}

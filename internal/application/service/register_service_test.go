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
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

func (f *fakeRegisterRepo) Create(ctx context.Context, register *entity.CashRegister) error {
	if register.ID == uuid.Nil {
		register.ID = uuid.New()
	}
	f.open = register
	return nil
}

func (f *fakeRegisterRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashRegister, error) {
	if f.open != nil && f.open.ID == id {
		return f.open, nil
	}
	return nil, nil
}

func (f *fakeRegisterRepo) Update(ctx context.Context, register *entity.CashRegister) error {
	f.open = register
	return nil
}

type fakeMovementRepo struct {
	repository.CashMovementRepository
	movements []*entity.CashMovement
}

func (f *fakeMovementRepo) Create(ctx context.Context, movement *entity.CashMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	f.movements = append(f.movements, movement)
	return nil
}

func registerEnv(t *testing.T) (*RegisterService, *fakeRegisterRepo, *fakeMovementRepo, context.Context) {
	t.Helper()
	registerRepo := &fakeRegisterRepo{}
	movementRepo := &fakeMovementRepo{}
	svc := NewRegisterService(registerRepo, movementRepo, nil, nil)
	return svc, registerRepo, movementRepo, infraRepo.WithStore(context.Background(), uuid.New())
}

func TestOpenRegisterOncePerDay(t *testing.T) {
	svc, _, _, ctx := registerEnv(t)

	register, err := svc.Open(ctx, date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !register.OpenedOn.Equal(date(2025, time.March, 10)) {
		t.Errorf("opened on = %s, want 2025-03-10", register.OpenedOn)
	}

	_, err = svc.Open(ctx, date(2025, time.March, 10))
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
}

func TestCloseRegister(t *testing.T) {
	svc, _, _, ctx := registerEnv(t)

	register, err := svc.Open(ctx, date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closed, err := svc.Close(ctx, register.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed.IsOpen() {
		t.Fatal("register still open after closing")
	}

	_, err = svc.Close(ctx, register.ID)
	if err == nil {
		t.Fatal("expected error closing a closed register")
	}
}

func TestAddMovementRequiresOpenRegister(t *testing.T) {
	svc, registerRepo, movementRepo, ctx := registerEnv(t)

	register, err := svc.Open(ctx, date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	movement, err := svc.AddMovement(ctx, register.ID, enum.CashMovementDebit, "troco", decimal.RequireFromString("50.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if movement.Kind != enum.CashMovementDebit || movement.Reason != "troco" {
		t.Errorf("movement = %+v", movement)
	}
	if len(movementRepo.movements) != 1 {
		t.Fatalf("got %d movements, want 1", len(movementRepo.movements))
	}

	day := date(2025, time.March, 10)
	registerRepo.open.ClosedOn = &day
	_, err = svc.AddMovement(ctx, register.ID, enum.CashMovementCredit, "sangria", decimal.RequireFromString("10.00"))
	if !errors.Is(err, apperror.ErrRegisterClosed) {
		t.Fatalf("expected ErrRegisterClosed, got %v", err)
	}
}

func TestAddMovementValidatesInput(t *testing.T) {
	svc, _, _, ctx := registerEnv(t)

	register, err := svc.Open(ctx, date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.AddMovement(ctx, register.ID, enum.CashMovementCredit, "fundo", decimal.Zero); err == nil {
		t.Fatal("expected error for non-positive amount")
	}
	if _, err := svc.AddMovement(ctx, register.ID, enum.CashMovementCredit, "", decimal.RequireFromString("10.00")); err == nil {
		t.Fatal("expected error for empty reason")
	}
}

func TestAddMovementRejectsForeignRegister(t *testing.T) {
	svc, _, _, ctx := registerEnv(t)

	register, err := svc.Open(ctx, date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	otherStore := infraRepo.WithStore(context.Background(), uuid.New())
	_, err = svc.AddMovement(otherStore, register.ID, enum.CashMovementCredit, "fundo", decimal.RequireFromString("10.00"))
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 404 {
		t.Fatalf("expected 404 AppError, got %v", err)
	}
}

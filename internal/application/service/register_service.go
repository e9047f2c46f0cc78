package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/enum"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// RegisterService manages the daily cash register lifecycle
type RegisterService struct {
	registerRepo  repository.CashRegisterRepository
	movementRepo  repository.CashMovementRepository
	saleRepo      repository.SaleRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewRegisterService creates a new register service
func NewRegisterService(
	registerRepo repository.CashRegisterRepository,
	movementRepo repository.CashMovementRepository,
	saleRepo repository.SaleRepository,
	analyticsRepo repository.AnalyticsRepository,
) *RegisterService {
	return &RegisterService{
		registerRepo:  registerRepo,
		movementRepo:  movementRepo,
		saleRepo:      saleRepo,
		analyticsRepo: analyticsRepo,
	}
}

// Open opens the register session for the given business day. A store
// has at most one open session per day.
func (s *RegisterService) Open(ctx context.Context, day time.Time) (*entity.CashRegister, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	if day.IsZero() {
		day = time.Now()
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := s.registerRepo.GetOpenForDay(ctx, storeID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewAppError(409, "Register is already open for this day")
	}

	register := &entity.CashRegister{
		StoreID:  storeID,
		OpenedOn: day,
	}
	if err := s.registerRepo.Create(ctx, register); err != nil {
		return nil, err
	}
	return register, nil
}

// Close closes a register session. Closed sessions stop accepting sales
// and movements.
func (s *RegisterService) Close(ctx context.Context, id uuid.UUID) (*entity.CashRegister, error) {
	register, err := s.registerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, apperror.NewNotFoundError("Register")
	}
	if !register.IsOpen() {
		return nil, apperror.NewAppError(400, "Register is already closed")
	}

	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	register.ClosedOn = &day
	if err := s.registerRepo.Update(ctx, register); err != nil {
		return nil, err
	}
	return register, nil
}

// AddMovement records a manual credit or debit against an open session
func (s *RegisterService) AddMovement(ctx context.Context, registerID uuid.UUID, kind enum.CashMovementType, reason string, amount decimal.Decimal) (*entity.CashMovement, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	register, err := s.registerRepo.GetByID(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if register == nil || register.StoreID != storeID {
		return nil, apperror.NewNotFoundError("Register")
	}
	if !register.IsOpen() {
		return nil, apperror.ErrRegisterClosed
	}
	if !amount.IsPositive() {
		return nil, apperror.NewBadRequestError("Amount must be positive")
	}
	if reason == "" {
		return nil, apperror.NewBadRequestError("Reason is required")
	}

	movement := &entity.CashMovement{
		RegisterID: registerID,
		StoreID:    storeID,
		Kind:       kind,
		Reason:     reason,
		Amount:     amount,
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// RegisterSummary is a session's balance and activity overview
type RegisterSummary struct {
	Register  *entity.CashRegister  `json:"register"`
	Balance   decimal.Decimal       `json:"balance"`
	SaleCount int                   `json:"sale_count"`
	Movements []entity.CashMovement `json:"movements"`
}

// Summary aggregates the on-books payments and manual movements of a session
func (s *RegisterService) Summary(ctx context.Context, id uuid.UUID) (*RegisterSummary, error) {
	register, err := s.registerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, apperror.NewNotFoundError("Register")
	}

	balance, err := s.analyticsRepo.GetRegisterBalance(ctx, id)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListByRegister(ctx, id)
	if err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.ListByRegister(ctx, id)
	if err != nil {
		return nil, err
	}

	return &RegisterSummary{
		Register:  register,
		Balance:   balance,
		SaleCount: len(sales),
		Movements: movements,
	}, nil
}

// List returns register sessions of the current store
func (s *RegisterService) List(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CashRegister], error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	registers, total, err := s.registerRepo.List(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(registers, pag), nil
}

package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// Duplicate serial policies for units registered at different stores
const (
	SerialPolicyWarn   = "warn"
	SerialPolicyReject = "reject"
)

// StockService manages per-store stock counters and serialized units
type StockService struct {
	stockRepo   repository.StockRepository
	serialRepo  repository.SerialUnitRepository
	productRepo repository.ProductRepository
	txManager   repository.TxManager

	// serialPolicy decides what happens when the same serial is active
	// for the same product at another store: warn logs and proceeds,
	// reject refuses the registration
	serialPolicy string
}

// NewStockService creates a new stock service
func NewStockService(
	stockRepo repository.StockRepository,
	serialRepo repository.SerialUnitRepository,
	productRepo repository.ProductRepository,
	txManager repository.TxManager,
	serialPolicy string,
) *StockService {
	if serialPolicy != SerialPolicyReject {
		serialPolicy = SerialPolicyWarn
	}
	return &StockService{
		stockRepo:    stockRepo,
		serialRepo:   serialRepo,
		productRepo:  productRepo,
		txManager:    txManager,
		serialPolicy: serialPolicy,
	}
}

// AddStock increases a product's available quantity at the current store
func (s *StockService) AddStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return apperror.NewBadRequestError("Store context required")
	}
	if quantity <= 0 {
		return apperror.NewBadRequestError("Quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	return s.stockRepo.Increment(ctx, productID, storeID, quantity)
}

// RegisterSerialUnits registers physical units of a serialized product
// and raises the stock counter by the number of units accepted. Serials
// already active at the same store are rejected; serials active at
// another store follow the configured duplicate policy.
func (s *StockService) RegisterSerialUnits(ctx context.Context, productID uuid.UUID, serials []string) ([]entity.SerialUnit, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}
	if len(serials) == 0 {
		return nil, apperror.NewBadRequestError("At least one serial number is required")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if !product.RequiresSerial {
		return nil, apperror.NewBadRequestError("Product does not track serial numbers")
	}

	var units []entity.SerialUnit
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		for _, serial := range serials {
			duplicates, err := s.serialRepo.CountActiveDuplicates(ctx, serial, productID, storeID)
			if err != nil {
				return err
			}
			if duplicates > 0 {
				if s.serialPolicy == SerialPolicyReject {
					return apperror.NewAppError(409, fmt.Sprintf("Serial %s is already registered at another store", serial))
				}
				log.Printf("serial %s of product %s already active at another store", serial, productID)
			}

			unit := entity.SerialUnit{
				SerialNumber: serial,
				ProductID:    productID,
				StoreID:      storeID,
			}
			if err := s.serialRepo.Create(ctx, &unit); err != nil {
				return err
			}
			units = append(units, unit)
		}

		return s.stockRepo.Increment(ctx, productID, storeID, len(serials))
	})
	if err != nil {
		return nil, err
	}

	return units, nil
}

// GetAvailability returns the stock counter for a product at the current store
func (s *StockService) GetAvailability(ctx context.Context, productID uuid.UUID) (*entity.StockRecord, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	record, err := s.stockRepo.GetByProductAndStore(ctx, productID, storeID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &entity.StockRecord{ProductID: productID, StoreID: storeID}, nil
	}
	return record, nil
}

// ListStock returns the stock counters of the current store
func (s *StockService) ListStock(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.StockRecord], error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	records, total, err := s.stockRepo.List(ctx, storeID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(records, pag), nil
}

// ListSerialUnits returns serialized units of the current store
func (s *StockService) ListSerialUnits(ctx context.Context, params *repository.SerialUnitFilterParams) (*pagination.PaginatedResult[entity.SerialUnit], error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	units, total, err := s.serialRepo.List(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(units, pag), nil
}

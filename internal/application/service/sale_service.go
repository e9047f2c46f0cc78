package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// SaleService coordinates sale creation, editing, cancellation and
// exchange. Every mutation runs inside one transaction so stock,
// serials, payments and schedules either all move or none do.
type SaleService struct {
	saleRepo       repository.SaleRepository
	saleLineRepo   repository.SaleLineRepository
	paymentRepo    repository.PaymentRepository
	methodRepo     repository.PaymentMethodRepository
	stockRepo      repository.StockRepository
	serialRepo     repository.SerialUnitRepository
	customerRepo   repository.CustomerRepository
	productRepo    repository.ProductRepository
	registerRepo   repository.CashRegisterRepository
	storeRepo      repository.StoreRepository
	installmentSvc *InstallmentService
	txManager      repository.TxManager
	notifier       Notifier
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	saleLineRepo repository.SaleLineRepository,
	paymentRepo repository.PaymentRepository,
	methodRepo repository.PaymentMethodRepository,
	stockRepo repository.StockRepository,
	serialRepo repository.SerialUnitRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	registerRepo repository.CashRegisterRepository,
	storeRepo repository.StoreRepository,
	installmentSvc *InstallmentService,
	txManager repository.TxManager,
	notifier Notifier,
) *SaleService {
	return &SaleService{
		saleRepo:       saleRepo,
		saleLineRepo:   saleLineRepo,
		paymentRepo:    paymentRepo,
		methodRepo:     methodRepo,
		stockRepo:      stockRepo,
		serialRepo:     serialRepo,
		customerRepo:   customerRepo,
		productRepo:    productRepo,
		registerRepo:   registerRepo,
		storeRepo:      storeRepo,
		installmentSvc: installmentSvc,
		txManager:      txManager,
		notifier:       notifier,
	}
}

// SaleLineInput is one product line of a sale request
type SaleLineInput struct {
	ProductID    uuid.UUID
	SerialNumber *string
	UnitPrice    decimal.Decimal
	Quantity     int
	Discount     decimal.Decimal
}

// SalePaymentInput is one payment leg of a sale request
type SalePaymentInput struct {
	MethodID         uuid.UUID
	Total            decimal.Decimal
	InstallmentCount int
	AnchorDay        int
	DiscountPct      decimal.Decimal
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	SellerID   uuid.UUID
	CustomerID uuid.UUID
	SaleDate   time.Time
	Note       *string
	Lines      []SaleLineInput
	Payments   []SalePaymentInput
}

// CreateSale creates a sale with its lines, payment legs and installment
// schedules in one transaction. The store's register must be open for
// the sale's business day, every line must have stock (and an available
// serial for serialized products) and the whole write rolls back on any
// failure.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}
	if len(input.Lines) == 0 {
		return nil, apperror.NewBadRequestError("A sale needs at least one line")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	saleDate := input.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	var saleID uuid.UUID
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		register, err := s.openRegister(ctx, storeID, saleDate)
		if err != nil {
			return err
		}

		products, err := s.loadProducts(ctx, input.Lines)
		if err != nil {
			return err
		}

		dealerShare := decimal.Zero
		sale := &entity.Sale{
			StoreID:    storeID,
			CustomerID: input.CustomerID,
			SellerID:   input.SellerID,
			RegisterID: register.ID,
			SaleDate:   saleDate,
			Note:       input.Note,
		}
		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		saleID = sale.ID

		for _, line := range input.Lines {
			product := products[line.ProductID]
			if err := s.consumeLine(ctx, storeID, product, &line); err != nil {
				return err
			}
			dealerShare = dealerShare.Add(product.DealerShare.Mul(decimal.NewFromInt(int64(line.Quantity))))

			if err := s.saleLineRepo.Create(ctx, &entity.SaleLine{
				SaleID:       sale.ID,
				ProductID:    line.ProductID,
				SerialNumber: line.SerialNumber,
				UnitPrice:    line.UnitPrice,
				Quantity:     line.Quantity,
				Discount:     line.Discount,
			}); err != nil {
				return err
			}
		}

		sale.DealerShare = dealerShare
		if err := s.saleRepo.Update(ctx, sale); err != nil {
			return err
		}

		return s.createPayments(ctx, sale, saleDate, input.Payments)
	})
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}

	s.emitSaleEvent(ctx, sale, EventSaleCreated, "Venda registrada", "Nova venda")
	return sale, nil
}

// GetSale retrieves a sale with full details
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales with cursor-based pagination
func (s *SaleService) ListSalesWithCursor(ctx context.Context, params *repository.SaleCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	sales, err := s.saleRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(sales, params.Cursor.Limit,
		func(sl entity.Sale) string { return sl.ID.String() },
		func(sl entity.Sale) time.Time { return sl.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateSaleInput replaces the lines of an existing sale
type UpdateSaleInput struct {
	Note  *string
	Lines []SaleLineInput
}

// UpdateSale edits a sale's lines in one transaction: every current
// line is released first (stock returned, serials freed), then the new
// lines are consumed. The register must still be open.
func (s *SaleService) UpdateSale(ctx context.Context, id uuid.UUID, input *UpdateSaleInput) (*entity.Sale, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}
	if len(input.Lines) == 0 {
		return nil, apperror.NewBadRequestError("A sale needs at least one line")
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if sale.Canceled {
			return apperror.NewAppError(400, "Sale is canceled")
		}

		if _, err := s.openRegister(ctx, storeID, time.Now()); err != nil {
			return err
		}

		// Release the old lines before consuming the new ones
		oldLines, err := s.saleLineRepo.GetBySaleID(ctx, id)
		if err != nil {
			return err
		}
		for i := range oldLines {
			if err := s.releaseLine(ctx, storeID, &oldLines[i]); err != nil {
				return err
			}
		}
		if err := s.saleLineRepo.DeleteBySaleID(ctx, id); err != nil {
			return err
		}

		products, err := s.loadProducts(ctx, input.Lines)
		if err != nil {
			return err
		}

		dealerShare := decimal.Zero
		for _, line := range input.Lines {
			product := products[line.ProductID]
			if err := s.consumeLine(ctx, storeID, product, &line); err != nil {
				return err
			}
			dealerShare = dealerShare.Add(product.DealerShare.Mul(decimal.NewFromInt(int64(line.Quantity))))

			if err := s.saleLineRepo.Create(ctx, &entity.SaleLine{
				SaleID:       sale.ID,
				ProductID:    line.ProductID,
				SerialNumber: line.SerialNumber,
				UnitPrice:    line.UnitPrice,
				Quantity:     line.Quantity,
				Discount:     line.Discount,
			}); err != nil {
				return err
			}
		}

		if input.Note != nil {
			sale.Note = input.Note
		}
		sale.DealerShare = dealerShare
		return s.saleRepo.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, id)
}

// CancelSale soft-deletes a sale. Stock and serial units are NOT
// restored; canceled goods go through a manual re-entry flow.
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID, reason string) error {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return apperror.NewBadRequestError("Store context required")
	}

	var sale *entity.Sale
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.saleRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if sale.Canceled {
			return apperror.NewAppError(400, "Sale is already canceled")
		}

		if _, err := s.openRegister(ctx, storeID, time.Now()); err != nil {
			return err
		}

		now := time.Now()
		sale.Canceled = true
		sale.CanceledAt = &now
		if reason != "" {
			sale.AuditNote = appendAuditNote(sale.AuditNote,
				fmt.Sprintf("canceled on %s: %s", now.Format("02/01/2006"), reason))
		}

		// Deactivate payment legs so their installments leave the ledger
		payments, err := s.paymentRepo.ListBySaleID(ctx, id)
		if err != nil {
			return err
		}
		for i := range payments {
			payments[i].Deactivated = true
			if err := s.paymentRepo.Update(ctx, &payments[i]); err != nil {
				return err
			}
		}

		return s.saleRepo.Update(ctx, sale)
	})
	if err != nil {
		return err
	}

	s.emitSaleEvent(ctx, sale, EventSaleCanceled, "Venda cancelada", "Venda cancelada")
	return nil
}

// ExchangeSale swaps one sale line's product or serial for another unit,
// restoring the old unit and reserving the new one atomically. The sale
// is flagged exchanged and the swap is appended to the audit note.
func (s *SaleService) ExchangeSale(ctx context.Context, saleID, lineID uuid.UUID, newProductID uuid.UUID, newSerial *string) (*entity.Sale, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if sale.Canceled {
			return apperror.NewAppError(400, "Sale is canceled")
		}

		if _, err := s.openRegister(ctx, storeID, time.Now()); err != nil {
			return err
		}

		lines, err := s.saleLineRepo.GetBySaleID(ctx, saleID)
		if err != nil {
			return err
		}
		var line *entity.SaleLine
		for i := range lines {
			if lines[i].ID == lineID {
				line = &lines[i]
				break
			}
		}
		if line == nil {
			return apperror.NewNotFoundError("Sale line")
		}

		newProduct, err := s.productRepo.GetByID(ctx, newProductID)
		if err != nil {
			return err
		}
		if newProduct == nil {
			return apperror.NewNotFoundError("Product")
		}

		// Return the old unit, then take the new one
		if err := s.releaseLine(ctx, storeID, line); err != nil {
			return err
		}

		swapped := SaleLineInput{
			ProductID:    newProductID,
			SerialNumber: newSerial,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			Discount:     line.Discount,
		}
		if err := s.consumeLine(ctx, storeID, newProduct, &swapped); err != nil {
			return err
		}

		note := fmt.Sprintf("exchanged %s for %s on %s",
			describeUnit(line.ProductID, line.SerialNumber),
			describeUnit(newProductID, newSerial),
			time.Now().Format("02/01/2006"))

		if err := s.saleLineRepo.Delete(ctx, line.ID); err != nil {
			return err
		}
		if err := s.saleLineRepo.Create(ctx, &entity.SaleLine{
			SaleID:       saleID,
			ProductID:    newProductID,
			SerialNumber: newSerial,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			Discount:     line.Discount,
		}); err != nil {
			return err
		}

		sale.Exchanged = true
		sale.AuditNote = appendAuditNote(sale.AuditNote, note)
		return s.saleRepo.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// openRegister enforces the register gate: sales can only move while a
// session for the business day is open.
func (s *SaleService) openRegister(ctx context.Context, storeID uuid.UUID, day time.Time) (*entity.CashRegister, error) {
	register, err := s.registerRepo.GetOpenForDay(ctx, storeID, day)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, apperror.ErrRegisterClosed
	}
	return register, nil
}

// loadProducts batch fetches and validates the products of a line set
func (s *SaleService) loadProducts(ctx context.Context, lines []SaleLineInput) (map[uuid.UUID]*entity.Product, error) {
	productIDs := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Line quantity must be positive")
		}
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			productIDs = append(productIDs, line.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for _, line := range lines {
		product, exists := productMap[line.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", line.ProductID))
		}
		if product.RequiresSerial {
			if line.SerialNumber == nil || *line.SerialNumber == "" {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("Product %s requires a serial number", product.Name))
			}
			if line.Quantity != 1 {
				return nil, apperror.NewBadRequestError("Serialized lines carry exactly one unit")
			}
		}
	}

	return productMap, nil
}

// consumeLine takes stock (and the serial unit when applicable) for one
// line. Runs under the enclosing transaction's row locks.
func (s *SaleService) consumeLine(ctx context.Context, storeID uuid.UUID, product *entity.Product, line *SaleLineInput) error {
	if product.RequiresSerial {
		unit, err := s.serialRepo.GetAvailableForUpdate(ctx, *line.SerialNumber, product.ID, storeID)
		if err != nil {
			return err
		}
		if err := s.serialRepo.MarkSold(ctx, unit.ID); err != nil {
			return err
		}
	}
	return s.stockRepo.Decrement(ctx, product.ID, storeID, line.Quantity)
}

// releaseLine returns one line's stock and frees its serial unit
func (s *SaleService) releaseLine(ctx context.Context, storeID uuid.UUID, line *entity.SaleLine) error {
	if line.SerialNumber != nil && *line.SerialNumber != "" {
		if err := s.serialRepo.Release(ctx, *line.SerialNumber, line.ProductID, storeID); err != nil {
			return err
		}
	}
	return s.stockRepo.Increment(ctx, line.ProductID, storeID, line.Quantity)
}

// createPayments creates the payment legs and their schedules
func (s *SaleService) createPayments(ctx context.Context, sale *entity.Sale, saleDate time.Time, inputs []SalePaymentInput) error {
	for _, in := range inputs {
		method, err := s.methodRepo.GetByID(ctx, in.MethodID)
		if err != nil {
			return err
		}
		if method == nil {
			return apperror.NewNotFoundError("Payment method")
		}
		if !in.Total.IsPositive() {
			return apperror.NewBadRequestError("Payment total must be positive")
		}

		count := in.InstallmentCount
		if count < 1 || !method.SupportsInstallments {
			count = 1
		}

		firstDue := time.Date(saleDate.Year(), saleDate.Month(), saleDate.Day(), 0, 0, 0, 0, time.UTC)
		if method.SupportsInstallments && count > 1 {
			anchor := in.AnchorDay
			if anchor == 0 {
				anchor = AnchorDays[1]
			}
			firstDue, err = FirstDueDate(saleDate, anchor)
			if err != nil {
				return err
			}
		}

		payment := &entity.Payment{
			SaleID:           sale.ID,
			StoreID:          sale.StoreID,
			MethodID:         method.ID,
			Total:            in.Total,
			InstallmentCount: count,
			FirstDueDate:     firstDue,
			DiscountPct:      in.DiscountPct,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		payment.Method = *method
		if err := s.installmentSvc.Regenerate(ctx, payment); err != nil {
			return err
		}
	}

	return nil
}

func (s *SaleService) emitSaleEvent(ctx context.Context, sale *entity.Sale, event, subject, title string) {
	if sale == nil {
		return
	}
	store, err := s.storeRepo.GetByID(ctx, sale.StoreID)
	if err != nil || store == nil {
		return
	}
	s.notifier.Notify(ctx, store, Event{
		Name:    event,
		StoreID: store.ID.String(),
		Subject: subject,
		Title:   title,
		Lines:   saleEventLines(sale),
	})
}

func appendAuditNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}

func describeUnit(productID uuid.UUID, serial *string) string {
	if serial != nil && *serial != "" {
		return fmt.Sprintf("product %s (serial %s)", productID, *serial)
	}
	return fmt.Sprintf("product %s", productID)
}

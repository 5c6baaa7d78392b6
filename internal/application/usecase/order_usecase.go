package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockmind/stockmind-api/internal/application/dto"
	appinv "github.com/stockmind/stockmind-api/internal/application/inventory"
	"github.com/stockmind/stockmind-api/internal/domain"
	"github.com/stockmind/stockmind-api/internal/domain/entity"
	"github.com/stockmind/stockmind-api/internal/domain/repository"
	"github.com/stockmind/stockmind-api/pkg/metrics"
)

// OrderUseCase casos de uso para órdenes de compra. Recibir una orden registra
// movimientos de entrada por cada línea a través del motor de inventario: el
// ledger sigue siendo el único camino de mutación de stock.
type OrderUseCase struct {
	orderRepo     repository.OrderRepository
	supplierRepo  repository.SupplierRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	movements     *appinv.MovementUseCase
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	movements *appinv.MovementUseCase,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:     orderRepo,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		movements:     movements,
	}
}

// Create crea una orden de compra en estado PENDING. Valida que proveedor,
// bodega y productos pertenezcan a la empresa. La orden y sus líneas se
// insertan en una sola transacción.
func (uc *OrderUseCase) Create(ctx context.Context, companyID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.SupplierID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil || supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if warehouse.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	orderID := uuid.New().String()
	total := decimal.Zero
	lines := make([]entity.OrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		lines = append(lines, entity.OrderLine{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}

	number := in.Number
	if number == "" {
		number = fmt.Sprintf("OC-%d-%s", now.Year(), orderID[:8])
	}
	date := in.Date
	if date.IsZero() {
		date = now
	}
	order := &entity.Order{
		ID:          orderID,
		CompanyID:   companyID,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Number:      number,
		Status:      entity.OrderStatusPending,
		Date:        date,
		Total:       total,
		Lines:       lines,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.movements.InTransaction(ctx, func(
		_ repository.MovementRepository,
		_ repository.InventoryRepository,
		ordRepo repository.OrderRepository,
	) error {
		return ordRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByID obtiene una orden de la empresa con sus líneas.
func (uc *OrderUseCase) GetByID(companyID, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toOrderResponse(order), nil
}

// List lista órdenes por empresa, opcionalmente filtradas por estado.
func (uc *OrderUseCase) List(companyID, status string, limit, offset int) (*dto.OrderListResponse, error) {
	if status != "" && status != entity.OrderStatusPending && status != entity.OrderStatusReceived && status != entity.OrderStatusCancelled {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.orderRepo.ListByCompany(companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Receive marca la orden como recibida y registra una entrada por cada línea.
// Lectura de la orden, entradas de todas las líneas y cambio de estado van en
// UNA transacción del motor de inventario: si una línea falla, nada queda en
// el ledger y la orden sigue PENDING, así un reintento aplica cada entrada
// exactamente una vez.
func (uc *OrderUseCase) Receive(ctx context.Context, companyID, userID, id string) (*dto.OrderResponse, error) {
	var received *entity.Order
	err := uc.movements.InTransaction(ctx, func(
		movRepo repository.MovementRepository,
		invRepo repository.InventoryRepository,
		ordRepo repository.OrderRepository,
	) error {
		order, err := ordRepo.GetByID(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if order.Status != entity.OrderStatusPending {
			return domain.ErrOrderNotPending
		}
		for _, line := range order.Lines {
			_, err := uc.movements.RecordTx(movRepo, invRepo, appinv.MovementInput{
				CompanyID:   companyID,
				UserID:      userID,
				ProductID:   line.ProductID,
				WarehouseID: order.WarehouseID,
				Type:        entity.MovementTypeIN,
				Quantity:    line.Quantity,
				Notes:       "recepción orden " + order.Number,
			})
			if err != nil {
				return fmt.Errorf("recibir línea %s: %w", line.ID, err)
			}
		}
		if err := ordRepo.UpdateStatus(order.ID, entity.OrderStatusReceived); err != nil {
			return err
		}
		order.Status = entity.OrderStatusReceived
		order.UpdatedAt = time.Now()
		received = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.MovementsRecorded.WithLabelValues(entity.MovementTypeIN).Add(float64(len(received.Lines)))
	return toOrderResponse(received), nil
}

// Cancel cancela una orden pendiente. Una orden recibida no se puede cancelar:
// sus entradas ya están en el ledger y se corrigen con movimientos de salida.
func (uc *OrderUseCase) Cancel(companyID, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if order.Status != entity.OrderStatusPending {
		return nil, domain.ErrOrderNotPending
	}
	if err := uc.orderRepo.UpdateStatus(id, entity.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = entity.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	return toOrderResponse(order), nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return &dto.OrderResponse{
		ID:          o.ID,
		CompanyID:   o.CompanyID,
		SupplierID:  o.SupplierID,
		WarehouseID: o.WarehouseID,
		Number:      o.Number,
		Status:      o.Status,
		Date:        o.Date,
		Total:       o.Total,
		Lines:       lines,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

package inventory

import (
	"github.com/stockmind/stockmind-api/internal/application/dto"
	"github.com/stockmind/stockmind-api/internal/domain"
	"github.com/stockmind/stockmind-api/internal/domain/entity"
	"github.com/stockmind/stockmind-api/internal/domain/repository"
)

// StockUseCase consultas de la proyección de inventario y ajuste de mínimos.
// Solo lectura sobre CurrentStock: el stock únicamente cambia vía movimientos.
type StockUseCase struct {
	invRepo repository.InventoryRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(invRepo repository.InventoryRepository) *StockUseCase {
	return &StockUseCase{invRepo: invRepo}
}

// List devuelve los ítems de inventario de la empresa (opcionalmente por bodega).
func (uc *StockUseCase) List(companyID, warehouseID string, limit, offset int) (*dto.InventoryListResponse, error) {
	list, err := uc.invRepo.ListByCompany(companyID, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, toInventoryItemResponse(it))
	}
	return &dto.InventoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// LowStock devuelve los ítems en stock crítico (StockActual <= StockMinimo).
func (uc *StockUseCase) LowStock(companyID, warehouseID string) ([]dto.InventoryItemResponse, error) {
	list, err := uc.invRepo.ListLowStock(companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, toInventoryItemResponse(it))
	}
	return items, nil
}

// SetMinimum fija el stock mínimo de una llave. No toca CurrentStock.
func (uc *StockUseCase) SetMinimum(companyID string, in dto.SetMinimumStockRequest) error {
	if in.WarehouseID == "" || in.ProductID == "" || in.MinimumStock < 0 {
		return domain.ErrInvalidInput
	}
	item, err := uc.invRepo.Get(companyID, in.WarehouseID, in.ProductID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.invRepo.SetMinimum(companyID, in.WarehouseID, in.ProductID, in.MinimumStock)
}

func toInventoryItemResponse(it *entity.InventoryItem) dto.InventoryItemResponse {
	status := dto.StockStatusInStock
	switch {
	case it.CurrentStock == 0:
		status = dto.StockStatusOut
	case it.BelowMinimum():
		status = dto.StockStatusCritical
	}
	return dto.InventoryItemResponse{
		ID:           it.ID,
		CompanyID:    it.CompanyID,
		WarehouseID:  it.WarehouseID,
		ProductID:    it.ProductID,
		CurrentStock: it.CurrentStock,
		MinimumStock: it.MinimumStock,
		Status:       status,
		UpdatedAt:    it.UpdatedAt,
	}
}

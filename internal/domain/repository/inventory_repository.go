package repository

import "github.com/stockmind/stockmind-api/internal/domain/entity"

// InventoryRepository define el puerto para la proyección de stock por
// (empresa, bodega, producto). Usado dentro de transacciones para garantizar
// consistencia con el ledger de movimientos.
type InventoryRepository interface {
	Get(companyID, warehouseID, productID string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Devuelve nil
	// si la llave no tiene registro todavía (camino de creación, no es error).
	GetForUpdate(companyID, warehouseID, productID string) (*entity.InventoryItem, error)
	Create(item *entity.InventoryItem) error
	// UpdateStock persiste CurrentStock condicionado a item.Version; si la versión
	// ya no coincide devuelve domain.ErrConflict y el caller debe reintentar.
	UpdateStock(item *entity.InventoryItem) error
	SetMinimum(companyID, warehouseID, productID string, minimum int64) error
	ListByCompany(companyID, warehouseID string, limit, offset int) ([]*entity.InventoryItem, error)
	// ListLowStock devuelve los ítems en stock crítico (CurrentStock <= MinimumStock).
	ListLowStock(companyID, warehouseID string) ([]*entity.InventoryItem, error)
}

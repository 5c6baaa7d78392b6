package dto

import "time"

// Estados derivados de un ítem de inventario.
const (
	StockStatusInStock  = "in_stock"
	StockStatusCritical = "critical"
	StockStatusOut      = "out_of_stock"
)

// InventoryItemResponse salida de la proyección de stock para una llave.
type InventoryItemResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	WarehouseID  string    `json:"warehouse_id"`
	ProductID    string    `json:"product_id"`
	CurrentStock int64     `json:"current_stock"`
	MinimumStock int64     `json:"minimum_stock"`
	Status       string    `json:"status"` // in_stock, critical, out_of_stock
	UpdatedAt    time.Time `json:"updated_at"`
}

// InventoryListResponse lista paginada de ítems de inventario.
type InventoryListResponse struct {
	Items []InventoryItemResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// SetMinimumStockRequest body para fijar el stock mínimo de una llave.
type SetMinimumStockRequest struct {
	WarehouseID  string `json:"warehouse_id" validate:"required"`
	ProductID    string `json:"product_id" validate:"required"`
	MinimumStock int64  `json:"minimum_stock" validate:"min=0"`
}

// RebuildStockRequest body para reconstruir la proyección de una llave desde el ledger.
type RebuildStockRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
	ProductID   string `json:"product_id" validate:"required"`
}

// RebuildStockResponse resultado de la reconstrucción.
type RebuildStockResponse struct {
	WarehouseID  string `json:"warehouse_id"`
	ProductID    string `json:"product_id"`
	CurrentStock int64  `json:"current_stock"`
}

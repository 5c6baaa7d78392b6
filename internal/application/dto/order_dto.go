package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de una orden de compra.
type OrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest entrada para crear una orden de compra.
type CreateOrderRequest struct {
	SupplierID  string             `json:"supplier_id" validate:"required"`
	WarehouseID string             `json:"warehouse_id" validate:"required"`
	Number      string             `json:"number"` // vacío = se genera consecutivo
	Date        time.Time          `json:"date"`
	Lines       []OrderLineRequest `json:"lines" validate:"required,min=1"`
}

// OrderLineResponse línea de la orden en respuestas.
type OrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse salida de una orden de compra.
type OrderResponse struct {
	ID          string              `json:"id"`
	CompanyID   string              `json:"company_id"`
	SupplierID  string              `json:"supplier_id"`
	WarehouseID string              `json:"warehouse_id"`
	Number      string              `json:"number"`
	Status      string              `json:"status"`
	Date        time.Time           `json:"date"`
	Total       decimal.Decimal     `json:"total"`
	Lines       []OrderLineResponse `json:"lines"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

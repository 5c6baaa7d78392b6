package dto

import "time"

// RecordMovementRequest body para POST /api/movements.
type RecordMovementRequest struct {
	ProductID   string    `json:"product_id" validate:"required"`
	WarehouseID string    `json:"warehouse_id" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=IN OUT"`
	Quantity    int64     `json:"quantity" validate:"required,gt=0"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	WarehouseID string    `json:"warehouse_id"`
	ProductID   string    `json:"product_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusReceived  = "RECEIVED"
	OrderStatusCancelled = "CANCELLED"
)

// Order representa una orden de compra a un proveedor. Al recibirla se registran
// movimientos de entrada por cada línea; la orden nunca toca el stock directamente.
type Order struct {
	ID          string
	CompanyID   string
	SupplierID  string
	WarehouseID string
	Number      string // consecutivo visible (ej. OC-2025-0001)
	Status      string
	Date        time.Time
	Total       decimal.Decimal
	Lines       []OrderLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderLine una línea de la orden: producto y cantidad pedida.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

package entity

import "time"

// Warehouse representa una bodega o almacén donde se guarda inventario (multi-bodega).
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Location  string
	Capacity  int64 // m² declarados, 0 = sin dato
	CreatedAt time.Time
	UpdatedAt time.Time
}

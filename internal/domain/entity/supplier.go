package entity

import "time"

// Estados válidos para Supplier.
const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)

// Supplier representa un proveedor de la empresa.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string // razón social
	Contact   string // persona de contacto
	Email     string
	Phone     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

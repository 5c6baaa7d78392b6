package entity

import "time"

// Company representa una organización/tenant del sistema. El aislamiento multi-tenant
// se hace por CompanyID como llave foránea en todas las tablas, nunca filtrando por nombre.
type Company struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

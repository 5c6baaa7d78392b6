package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// Movement es un registro del libro de movimientos (ledger): un evento de stock
// entrando o saliendo de una bodega para un producto. Quantity siempre es positiva;
// el signo lo da Type. Editar o eliminar un movimiento re-ejecuta el protocolo de
// ajuste sobre la proyección de inventario.
type Movement struct {
	ID          string
	CompanyID   string
	WarehouseID string
	ProductID   string
	Type        string // IN, OUT
	Quantity    int64  // > 0
	Date        time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string // UserID del token, vacío si no aplica
}

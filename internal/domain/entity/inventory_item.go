package entity

import "time"

// InventoryItem es la proyección de stock actual por (empresa, bodega, producto).
// Única por esa tripleta (constraint en DB). CurrentStock >= 0 siempre; solo muta
// a través del protocolo de ajuste, nunca por escritura directa arbitraria.
// Version soporta control de concurrencia optimista: un update con versión vieja
// falla con ErrConflict y el caller debe reintentar con lectura fresca.
type InventoryItem struct {
	ID           string
	CompanyID    string
	WarehouseID  string
	ProductID    string
	CurrentStock int64
	MinimumStock int64
	Version      int64
	UpdatedAt    time.Time
}

// BelowMinimum indica si el ítem está en stock crítico (StockActual <= StockMinimo).
func (i *InventoryItem) BelowMinimum() bool {
	return i.CurrentStock <= i.MinimumStock
}

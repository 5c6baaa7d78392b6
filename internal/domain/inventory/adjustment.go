package inventory

import (
	"github.com/stockmind/stockmind-api/internal/domain"
	"github.com/stockmind/stockmind-api/internal/domain/entity"
)

// NegativeStockPolicy decide qué hacer cuando un ajuste dejaría el stock negativo.
type NegativeStockPolicy string

const (
	// PolicyClamp fija el resultado en cero (comportamiento histórico del sistema).
	// Se pierde la magnitud del faltante.
	PolicyClamp NegativeStockPolicy = "clamp"
	// PolicyReject rechaza el movimiento con ErrInsufficientStock.
	PolicyReject NegativeStockPolicy = "reject"
)

// Valid indica si la política es una de las conocidas.
func (p NegativeStockPolicy) Valid() bool {
	return p == PolicyClamp || p == PolicyReject
}

// Delta devuelve la variación firmada de stock que produce un movimiento:
// +quantity para entradas, -quantity para salidas.
func Delta(movementType string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	switch movementType {
	case entity.MovementTypeIN:
		return quantity, nil
	case entity.MovementTypeOUT:
		return -quantity, nil
	}
	return 0, domain.ErrInvalidInput
}

// Apply calcula el nuevo stock a partir del actual y un delta firmado (servicio de dominio).
// Es una función pura: el caller decide la transacción y la persistencia.
// NuevoStock = StockActual + Delta; si queda negativo aplica la política configurada.
func Apply(current, delta int64, policy NegativeStockPolicy) (int64, error) {
	next := current + delta
	if next >= 0 {
		return next, nil
	}
	if policy == PolicyReject {
		return 0, domain.ErrInsufficientStock
	}
	// clamp: nunca stock negativo
	return 0, nil
}

// Revert devuelve el delta que deshace el efecto de un movimiento ya aplicado
// (entrada pasa a resta, salida pasa a suma).
func Revert(movementType string, quantity int64) (int64, error) {
	d, err := Delta(movementType, quantity)
	if err != nil {
		return 0, err
	}
	return -d, nil
}

// Replay recalcula el stock de una llave de inventario plegando sus movimientos
// en orden cronológico, con clamping en cada paso. Es la fuente de verdad para
// reconstruir una proyección con drift (ej. ediciones directas que saltaron el ledger).
func Replay(movements []*entity.Movement) int64 {
	var stock int64
	for _, m := range movements {
		d, err := Delta(m.Type, m.Quantity)
		if err != nil {
			continue
		}
		stock, _ = Apply(stock, d, PolicyClamp)
	}
	return stock
}

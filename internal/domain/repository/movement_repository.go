package repository

import (
	"time"

	"github.com/stockmind/stockmind-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para el ledger de movimientos.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	Update(movement *entity.Movement) error
	Delete(id string) error
	ListByCompany(companyID, movementType string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// ListByKey devuelve todos los movimientos de una llave de inventario en orden
	// cronológico ascendente (para replay/reconciliación).
	ListByKey(companyID, warehouseID, productID string) ([]*entity.Movement, error)
}

package repository

import "github.com/stockmind/stockmind-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para órdenes de compra.
// Create persiste la orden con sus líneas; GetByID las devuelve pobladas.
// UpdateStatus solo transiciona órdenes PENDING; sobre cualquier otro estado
// devuelve ErrOrderNotPending sin tocar la fila.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	UpdateStatus(id, status string) error
	ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Order, error)
}

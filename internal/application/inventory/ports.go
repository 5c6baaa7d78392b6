package inventory

import (
	"context"

	"github.com/stockmind/stockmind-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que el ledger y la proyección cambien juntos o no cambien:
// nunca queda el ledger adelante de la proyección ni al revés. El repo de órdenes
// viaja en la misma tx para que recibir una orden (estado + entradas) sea atómico.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		invRepo repository.InventoryRepository,
		ordRepo repository.OrderRepository,
	) error) error
}

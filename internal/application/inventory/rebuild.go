package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockmind/stockmind-api/internal/domain"
	"github.com/stockmind/stockmind-api/internal/domain/entity"
	domaininv "github.com/stockmind/stockmind-api/internal/domain/inventory"
	"github.com/stockmind/stockmind-api/internal/domain/repository"
	"github.com/stockmind/stockmind-api/pkg/metrics"
)

// RebuildStock reconstruye la proyección de una llave reproduciendo su ledger
// en orden cronológico, con clamping por prefijo. Repara el drift que dejan las
// ediciones directas de stock que no pasaron por movimientos. Corre en una
// transacción con la fila bloqueada, igual que cualquier ajuste.
func (uc *MovementUseCase) RebuildStock(ctx context.Context, companyID, warehouseID, productID string) (int64, error) {
	if companyID == "" || warehouseID == "" || productID == "" {
		return 0, domain.ErrInvalidInput
	}
	var stock int64
	err := uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, invRepo repository.InventoryRepository, _ repository.OrderRepository) error {
		movs, err := movRepo.ListByKey(companyID, warehouseID, productID)
		if err != nil {
			return err
		}
		stock = domaininv.Replay(movs)

		item, err := invRepo.GetForUpdate(companyID, warehouseID, productID)
		if err != nil {
			return err
		}
		now := time.Now()
		if item == nil {
			return invRepo.Create(&entity.InventoryItem{
				ID:           uuid.New().String(),
				CompanyID:    companyID,
				WarehouseID:  warehouseID,
				ProductID:    productID,
				CurrentStock: stock,
				MinimumStock: 0,
				Version:      1,
				UpdatedAt:    now,
			})
		}
		item.CurrentStock = stock
		item.UpdatedAt = now
		return invRepo.UpdateStock(item)
	})
	if err != nil {
		return 0, err
	}
	metrics.StockRebuilds.Inc()
	return stock, nil
}

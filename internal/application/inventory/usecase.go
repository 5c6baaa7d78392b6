package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stockmind/stockmind-api/internal/application/dto"
	"github.com/stockmind/stockmind-api/internal/domain"
	"github.com/stockmind/stockmind-api/internal/domain/entity"
	domaininv "github.com/stockmind/stockmind-api/internal/domain/inventory"
	"github.com/stockmind/stockmind-api/internal/domain/repository"
	"github.com/stockmind/stockmind-api/pkg/metrics"
)

// conflictRetries reintentos completos del ajuste cuando la proyección cambió
// de versión entre la lectura y el update (ErrConflict).
const conflictRetries = 3

// MovementUseCase implementa el protocolo de ajuste de inventario: registrar,
// editar y eliminar movimientos manteniendo la proyección de stock consistente
// con el ledger. Cada operación corre en UNA transacción con la fila de stock
// bloqueada (SELECT FOR UPDATE), así dos clientes sobre la misma llave se
// serializan y no se pierde ninguna actualización.
type MovementUseCase struct {
	txRunner      TxRunner
	movementRepo  repository.MovementRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	policy        domaininv.NegativeStockPolicy
}

// NewMovementUseCase construye el caso de uso. policy decide si un ajuste que
// dejaría stock negativo se fija en cero (clamp) o se rechaza (reject).
func NewMovementUseCase(
	txRunner TxRunner,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	policy domaininv.NegativeStockPolicy,
) *MovementUseCase {
	if !policy.Valid() {
		policy = domaininv.PolicyClamp
	}
	return &MovementUseCase{
		txRunner:      txRunner,
		movementRepo:  movementRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		policy:        policy,
	}
}

// MovementInput entrada para registrar o editar un movimiento.
type MovementInput struct {
	CompanyID   string
	UserID      string
	ProductID   string
	WarehouseID string
	Type        string // IN, OUT
	Quantity    int64
	Date        time.Time
	Notes       string
}

// RecordFromRequest adapta el request HTTP a Record.
func (uc *MovementUseCase) RecordFromRequest(ctx context.Context, companyID, userID string, in dto.RecordMovementRequest) (*entity.Movement, error) {
	return uc.Record(ctx, MovementInput{
		CompanyID:   companyID,
		UserID:      userID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Date:        in.Date,
		Notes:       in.Notes,
	})
}

// Record crea el registro en el ledger y ajusta la proyección en la misma
// transacción. Si la llave no tiene registro de inventario todavía, lo crea
// (entrada → stock = cantidad; salida → stock = 0, según política).
func (uc *MovementUseCase) Record(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	var mov *entity.Movement
	err := uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, invRepo repository.InventoryRepository, _ repository.OrderRepository) error {
		m, err := uc.RecordTx(movRepo, invRepo, input)
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.MovementsRejected.Inc()
		}
		return nil, err
	}
	metrics.MovementsRecorded.WithLabelValues(mov.Type).Inc()
	return mov, nil
}

// RecordTx registra un movimiento usando repos ya atados a una transacción en
// curso. Lo usan Record y los flujos compuestos (recepción de órdenes) que
// agrupan varios movimientos con otro estado en una sola transacción. No toca
// métricas: eso le corresponde al caller cuando la tx confirma.
func (uc *MovementUseCase) RecordTx(movRepo repository.MovementRepository, invRepo repository.InventoryRepository, input MovementInput) (*entity.Movement, error) {
	if err := uc.validate(input); err != nil {
		return nil, err
	}
	delta, err := domaininv.Delta(input.Type, input.Quantity)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		CompanyID:   input.CompanyID,
		WarehouseID: input.WarehouseID,
		ProductID:   input.ProductID,
		Type:        input.Type,
		Quantity:    input.Quantity,
		Date:        date,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   input.UserID,
	}
	if err := uc.applyDelta(invRepo, input.CompanyID, input.WarehouseID, input.ProductID, delta); err != nil {
		return nil, err
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// InTransaction expone el runner con reintentos para flujos compuestos que
// combinan movimientos con otro estado (ej. marcar una orden como recibida en
// la misma transacción que sus entradas).
func (uc *MovementUseCase) InTransaction(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	ordRepo repository.OrderRepository,
) error) error {
	return uc.runWithRetry(ctx, fn)
}

// Edit reemplaza un movimiento existente: primero revierte el efecto del
// movimiento viejo sobre su llave y luego aplica el nuevo (que puede apuntar a
// otra llave). Reversión, aplicación y update del ledger van en UNA transacción,
// así un fallo intermedio no deja la proyección en un estado híbrido.
func (uc *MovementUseCase) Edit(ctx context.Context, companyID, movementID string, input MovementInput) (*entity.Movement, error) {
	input.CompanyID = companyID
	if err := uc.validate(input); err != nil {
		return nil, err
	}
	delta, err := domaininv.Delta(input.Type, input.Quantity)
	if err != nil {
		return nil, err
	}

	var updated *entity.Movement
	err = uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, invRepo repository.InventoryRepository, _ repository.OrderRepository) error {
		// La lectura del movimiento viejo va dentro de la tx: si otro cliente
		// lo elimina o edita en paralelo, el Update de abajo afectaría cero
		// filas y la reversión quedaría aplicada sobre un efecto que ya no
		// existe. Leyendo aquí, un borrado concurrente termina en ErrNotFound.
		old, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		if old.CompanyID != companyID {
			return domain.ErrForbidden
		}
		revert, err := domaininv.Revert(old.Type, old.Quantity)
		if err != nil {
			return err
		}

		updated = &entity.Movement{
			ID:          old.ID,
			CompanyID:   companyID,
			WarehouseID: input.WarehouseID,
			ProductID:   input.ProductID,
			Type:        input.Type,
			Quantity:    input.Quantity,
			Date:        input.Date,
			Notes:       input.Notes,
			CreatedAt:   old.CreatedAt,
			UpdatedAt:   time.Now(),
			CreatedBy:   old.CreatedBy,
		}
		if updated.Date.IsZero() {
			updated.Date = old.Date
		}

		if err := uc.applyDelta(invRepo, old.CompanyID, old.WarehouseID, old.ProductID, revert); err != nil {
			return err
		}
		if err := uc.applyDelta(invRepo, companyID, input.WarehouseID, input.ProductID, delta); err != nil {
			return err
		}
		return movRepo.Update(updated)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.MovementsRejected.Inc()
		}
		return nil, err
	}
	return updated, nil
}

// Delete revierte el efecto del movimiento sobre la proyección y borra el
// registro del ledger, todo en una transacción.
func (uc *MovementUseCase) Delete(ctx context.Context, companyID, movementID string) error {
	return uc.runWithRetry(ctx, func(movRepo repository.MovementRepository, invRepo repository.InventoryRepository, _ repository.OrderRepository) error {
		// Misma regla que en Edit: el movimiento se lee dentro de la tx para
		// no revertir el efecto de un registro que otro cliente ya borró.
		old, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		if old.CompanyID != companyID {
			return domain.ErrForbidden
		}
		revert, err := domaininv.Revert(old.Type, old.Quantity)
		if err != nil {
			return err
		}
		if err := uc.applyDelta(invRepo, old.CompanyID, old.WarehouseID, old.ProductID, revert); err != nil {
			return err
		}
		return movRepo.Delete(old.ID)
	})
}

// GetByID devuelve un movimiento de la empresa.
func (uc *MovementUseCase) GetByID(companyID, movementID string) (*entity.Movement, error) {
	mov, err := uc.movementRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	if mov.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return mov, nil
}

// List devuelve movimientos de la empresa con filtros opcionales de tipo y fechas.
func (uc *MovementUseCase) List(companyID, movementType string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	if movementType != "" && movementType != entity.MovementTypeIN && movementType != entity.MovementTypeOUT {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByCompany(companyID, movementType, from, to, limit, offset)
}

// validate revisa la entrada y que producto y bodega existan y sean de la empresa.
func (uc *MovementUseCase) validate(input MovementInput) error {
	if input.ProductID == "" || input.WarehouseID == "" || input.CompanyID == "" {
		return domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if input.Type != entity.MovementTypeIN && input.Type != entity.MovementTypeOUT {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}
	warehouse, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil || warehouse == nil {
		return domain.ErrNotFound
	}
	if warehouse.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}
	return nil
}

// applyDelta ejecuta la operación de ajuste sobre una llave dentro de la tx:
// lookup con bloqueo de fila, cálculo con la política de stock negativo y
// persistencia (create si la llave no existe todavía).
func (uc *MovementUseCase) applyDelta(invRepo repository.InventoryRepository, companyID, warehouseID, productID string, delta int64) error {
	item, err := invRepo.GetForUpdate(companyID, warehouseID, productID)
	if err != nil {
		return err
	}
	now := time.Now()
	if item == nil {
		stock, err := domaininv.Apply(0, delta, uc.policy)
		if err != nil {
			return err
		}
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
	stock, err := domaininv.Apply(item.CurrentStock, delta, uc.policy)
	if err != nil {
		return err
	}
	item.CurrentStock = stock
	item.UpdatedAt = now
	return invRepo.UpdateStock(item)
}

// runWithRetry reintenta la transacción completa ante ErrConflict (versión vieja
// de la proyección o creación concurrente de la misma llave). Reintentar la
// operación entera evita aplicar el delta dos veces.
func (uc *MovementUseCase) runWithRetry(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	ordRepo repository.OrderRepository,
) error) error {
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		metrics.StockConflicts.Inc()
	}
	return err
}

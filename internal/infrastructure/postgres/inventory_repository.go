package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stockmind/stockmind-api/internal/domain"
	"github.com/stockmind/stockmind-api/internal/domain/entity"
	"github.com/stockmind/stockmind-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de la proyección de stock sobre PostgreSQL (usable con pool o tx).
// Las escrituras de stock deben llegar siempre por tx (vía TxRunner) junto con el ledger.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de la proyección. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, company_id, warehouse_id, product_id, current_stock, minimum_stock, version, updated_at`

// Get obtiene la proyección de una llave sin bloquear. Devuelve nil si no existe.
func (r *InventoryRepo) Get(companyID, warehouseID, productID string) (*entity.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE company_id = $1 AND warehouse_id = $2 AND product_id = $3`
	item, err := scanInventoryItem(r.q.QueryRow(context.Background(), query, companyID, warehouseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

// GetForUpdate bloquea la fila de la llave (SELECT FOR UPDATE) dentro de la tx
// actual. Devuelve nil si la llave no tiene registro todavía; ese es el camino
// de creación, no un error.
func (r *InventoryRepo) GetForUpdate(companyID, warehouseID, productID string) (*entity.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE company_id = $1 AND warehouse_id = $2 AND product_id = $3
		FOR UPDATE`
	item, err := scanInventoryItem(r.q.QueryRow(context.Background(), query, companyID, warehouseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item for update: %w", err)
	}
	return item, nil
}

// Create inserta la proyección de una llave nueva. Si otra transacción ganó la
// carrera de creación el constraint único dispara y se reporta como conflicto
// para que el caller reintente.
func (r *InventoryRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.WarehouseID, item.ProductID,
		item.CurrentStock, item.MinimumStock, item.Version, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// UpdateStock persiste CurrentStock condicionado a la versión leída. Cero filas
// afectadas significa que alguien más escribió primero: ErrConflict y reintento.
func (r *InventoryRepo) UpdateStock(item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET current_stock = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`
	cmd, err := r.q.Exec(context.Background(), query, item.ID, item.CurrentStock, item.Version)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// SetMinimum fija el umbral de stock mínimo de una llave existente.
func (r *InventoryRepo) SetMinimum(companyID, warehouseID, productID string, minimum int64) error {
	query := `
		UPDATE inventory_items
		SET minimum_stock = $4, updated_at = now()
		WHERE company_id = $1 AND warehouse_id = $2 AND product_id = $3`
	cmd, err := r.q.Exec(context.Background(), query, companyID, warehouseID, productID, minimum)
	if err != nil {
		return fmt.Errorf("set minimum stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista la proyección por empresa, opcionalmente filtrada por bodega.
func (r *InventoryRepo) ListByCompany(companyID, warehouseID string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	return collectInventoryItems(rows)
}

// ListLowStock devuelve los ítems en stock crítico (actual <= mínimo).
func (r *InventoryRepo) ListLowStock(companyID, warehouseID string) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE company_id = $1 AND current_stock <= minimum_stock`
	args := []any{companyID}
	if warehouseID != "" {
		query += " AND warehouse_id = $2"
		args = append(args, warehouseID)
	}
	query += " ORDER BY current_stock ASC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return collectInventoryItems(rows)
}

func scanInventoryItem(row pgx.Row) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	err := row.Scan(
		&i.ID, &i.CompanyID, &i.WarehouseID, &i.ProductID,
		&i.CurrentStock, &i.MinimumStock, &i.Version, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func collectInventoryItems(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stockmind/stockmind-api/internal/domain"
	"github.com/stockmind/stockmind-api/internal/domain/entity"
	"github.com/stockmind/stockmind-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger de movimientos sobre PostgreSQL (usable con pool o tx).
// Las escrituras normalmente llegan por tx (vía TxRunner) para moverse junto con la proyección.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, company_id, warehouse_id, product_id, type, quantity, date, notes, created_at, updated_at, created_by`

// Create persiste un movimiento del ledger.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.WarehouseID, movement.ProductID,
		movement.Type, movement.Quantity, movement.Date, movement.Notes,
		movement.CreatedAt, movement.UpdatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Update persiste los campos editables de un movimiento (llave, tipo, cantidad, fecha, notas).
// Cero filas afectadas significa que el registro desapareció entre la lectura y
// este punto; se reporta como ErrConflict para que el caller reintente la tx.
func (r *MovementRepo) Update(movement *entity.Movement) error {
	query := `
		UPDATE movements
		SET warehouse_id = $2, product_id = $3, type = $4, quantity = $5, date = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.WarehouseID, movement.ProductID, movement.Type,
		movement.Quantity, movement.Date, movement.Notes, movement.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Delete elimina un movimiento del ledger. Cero filas afectadas → ErrConflict,
// igual que en Update.
func (r *MovementRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListByCompany lista movimientos de una empresa, opcionalmente filtrados por tipo
// y rango de fechas, más recientes primero.
func (r *MovementRepo) ListByCompany(companyID, movementType string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if movementType != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, movementType)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByKey devuelve todos los movimientos de una llave de inventario en orden
// cronológico ascendente. Es la entrada del replay de stock.
func (r *MovementRepo) ListByKey(companyID, warehouseID, productID string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE company_id = $1 AND warehouse_id = $2 AND product_id = $3
		ORDER BY date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, companyID, warehouseID, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements by key: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.WarehouseID, &m.ProductID, &m.Type,
		&m.Quantity, &m.Date, &m.Notes, &m.CreatedAt, &m.UpdatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable
// con pool o tx). Las escrituras van por tx (vía TxRunner): crear una orden con
// sus líneas y recibirla junto con sus entradas son operaciones atómicas.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para órdenes de compra.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la orden y todas sus líneas. La atomicidad la da la
// transacción del caller.
func (r *OrderRepo) Create(order *entity.Order) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, company_id, supplier_id, warehouse_id, number, status, date, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.CompanyID, order.SupplierID, order.WarehouseID,
		order.Number, order.Status, order.Date, order.Total, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		_, err = r.q.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			line.ID, order.ID, line.ProductID, line.Quantity, line.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden con sus líneas pobladas.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	ctx := context.Background()
	var o entity.Order
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, supplier_id, warehouse_id, number, status, date, total, created_at, updated_at
		FROM orders WHERE id = $1`, id).Scan(
		&o.ID, &o.CompanyID, &o.SupplierID, &o.WarehouseID, &o.Number,
		&o.Status, &o.Date, &o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_lines WHERE order_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus mueve la orden fuera de PENDING (a RECEIVED o CANCELLED). El
// guard de estado va en el propio UPDATE: si otro cliente ya movió la orden,
// afecta cero filas y se reporta ErrOrderNotPending en vez de pisar el estado.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND status = $3`,
		id, status, entity.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotPending
	}
	return nil
}

// ListByCompany lista órdenes por empresa, opcionalmente filtradas por estado.
// Las listas no cargan líneas; GetByID las trae completas.
func (r *OrderRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT id, company_id, supplier_id, warehouse_id, number, status, date, total, created_at, updated_at
		FROM orders WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.SupplierID, &o.WarehouseID, &o.Number,
			&o.Status, &o.Date, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

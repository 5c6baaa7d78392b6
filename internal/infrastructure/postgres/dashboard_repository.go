package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/stockmind/stockmind-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas de solo lectura para el panel.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador de consultas del panel.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// GetCounts devuelve los totales de catálogo y los ítems en stock crítico de la empresa.
func (r *DashboardRepo) GetCounts(ctx context.Context, companyID string) (*repository.DashboardCounts, error) {
	query := `
		SELECT
			(SELECT count(*) FROM products WHERE company_id = $1),
			(SELECT count(*) FROM warehouses WHERE company_id = $1),
			(SELECT count(*) FROM suppliers WHERE company_id = $1),
			(SELECT count(*) FROM inventory_items WHERE company_id = $1 AND current_stock <= minimum_stock)`
	var c repository.DashboardCounts
	err := r.q.QueryRow(ctx, query, companyID).Scan(&c.Products, &c.Warehouses, &c.Suppliers, &c.LowStock)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &c, nil
}

// GetMovementStats agrega el ledger en un rango de fechas: número de movimientos
// y cantidades totales de entrada y salida. Un from en cero significa sin límite inferior.
func (r *DashboardRepo) GetMovementStats(ctx context.Context, companyID string, from, to time.Time) (*repository.MovementStats, error) {
	query := `
		SELECT
			count(*),
			COALESCE(sum(quantity) FILTER (WHERE type = 'IN'), 0),
			COALESCE(sum(quantity) FILTER (WHERE type = 'OUT'), 0)
		FROM movements
		WHERE company_id = $1 AND date <= $2`
	args := []any{companyID, to}
	if !from.IsZero() {
		query += " AND date >= $3"
		args = append(args, from)
	}
	var s repository.MovementStats
	err := r.q.QueryRow(ctx, query, args...).Scan(&s.Count, &s.InboundQty, &s.OutboundQty)
	if err != nil {
		return nil, fmt.Errorf("movement stats: %w", err)
	}
	return &s, nil
}

package repository

import (
	"context"
	"time"
)

// DashboardCounts totales por empresa para el panel.
type DashboardCounts struct {
	Products   int64
	Warehouses int64
	Suppliers  int64
	LowStock   int64
}

// MovementStats agregados del ledger en un rango de fechas.
type MovementStats struct {
	Count       int64
	InboundQty  int64
	OutboundQty int64
}

// DashboardRepository consultas agregadas de solo lectura para el panel.
type DashboardRepository interface {
	GetCounts(ctx context.Context, companyID string) (*DashboardCounts, error)
	GetMovementStats(ctx context.Context, companyID string, from, to time.Time) (*MovementStats, error)
}

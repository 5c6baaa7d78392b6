package usecase

import (
	"context"
	"time"

	"github.com/stockmind/stockmind-api/internal/application/dto"
	"github.com/stockmind/stockmind-api/internal/domain/repository"
)

// DashboardUseCase agrega los números del panel principal.
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// Summary devuelve totales de catálogo, ítems en stock crítico, movimientos de
// hoy y el balance histórico entradas - salidas.
func (uc *DashboardUseCase) Summary(ctx context.Context, companyID string) (*dto.DashboardSummaryResponse, error) {
	counts, err := uc.repo.GetCounts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := uc.repo.GetMovementStats(ctx, companyID, startOfDay, now)
	if err != nil {
		return nil, err
	}
	allTime, err := uc.repo.GetMovementStats(ctx, companyID, time.Time{}, now)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardSummaryResponse{
		TotalProducts:   counts.Products,
		TotalWarehouses: counts.Warehouses,
		TotalSuppliers:  counts.Suppliers,
		LowStockItems:   counts.LowStock,
		MovementsToday:  today.Count,
		InboundTotal:    allTime.InboundQty,
		OutboundTotal:   allTime.OutboundQty,
		Balance:         allTime.InboundQty - allTime.OutboundQty,
	}, nil
}

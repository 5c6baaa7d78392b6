package dto

// DashboardSummaryResponse agregados del panel principal.
type DashboardSummaryResponse struct {
	TotalProducts   int64 `json:"total_products"`
	TotalWarehouses int64 `json:"total_warehouses"`
	TotalSuppliers  int64 `json:"total_suppliers"`
	LowStockItems   int64 `json:"low_stock_items"`
	MovementsToday  int64 `json:"movements_today"`
	InboundTotal    int64 `json:"inbound_total"`
	OutboundTotal   int64 `json:"outbound_total"`
	Balance         int64 `json:"balance"` // entradas - salidas (histórico)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del motor de inventario, expuestos en /metrics.
var (
	// MovementsRecorded movimientos aceptados por el ledger, por tipo (IN/OUT).
	MovementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockmind_movements_recorded_total",
		Help: "Movimientos de inventario registrados en el ledger.",
	}, []string{"type"})

	// MovementsRejected movimientos rechazados por stock insuficiente (política reject).
	MovementsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockmind_movements_rejected_total",
		Help: "Movimientos rechazados por stock insuficiente.",
	})

	// StockConflicts conflictos de versión detectados al actualizar la proyección.
	StockConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockmind_stock_conflicts_total",
		Help: "Conflictos de concurrencia optimista sobre la proyección de stock.",
	})

	// StockRebuilds reconstrucciones de proyección ejecutadas desde el ledger.
	StockRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockmind_stock_rebuilds_total",
		Help: "Reconstrucciones de la proyección de stock por replay del ledger.",
	})
)

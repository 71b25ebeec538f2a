package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	movementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "movements_recorded_total",
		Help:      "Movimientos registrados en el ledger por tipo.",
	}, []string{"type"})

	movementsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "movements_rejected_total",
		Help:      "Operaciones del ledger rechazadas por motivo.",
	}, []string{"operation", "reason"})
)

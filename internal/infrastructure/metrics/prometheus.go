// Package metrics implementa ports.Metrics sobre Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Estoque-api/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus recolector de métricas del motor de stock.
type Prometheus struct {
	withdrawals   *prometheus.CounterVec
	units         prometheus.Counter
	statusChanges *prometheus.CounterVec
	atRisk        prometheus.Gauge
}

// NewPrometheus registra las métricas en reg (usar prometheus.DefaultRegisterer en producción).
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	p := &Prometheus{
		withdrawals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawals_total",
			Help:      "Retiradas procesadas por resultado.",
		}, []string{"outcome"}),
		units: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawn_units_total",
			Help:      "Unidades retiradas con éxito.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Cambios de estado por estado destino y resultado.",
		}, []string{"status", "outcome"}),
		atRisk: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expiration_at_risk_entries",
			Help:      "Entradas con 7 días o menos para vencer en el último snapshot.",
		}),
	}
	for _, c := range []prometheus.Collector{p.withdrawals, p.units, p.statusChanges, p.atRisk} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WithdrawalObserved implementa ports.Metrics.
func (p *Prometheus) WithdrawalObserved(outcome string, units int) {
	p.withdrawals.WithLabelValues(outcome).Inc()
	if outcome == ports.OutcomeOK && units > 0 {
		p.units.Add(float64(units))
	}
}

// StatusChangeObserved implementa ports.Metrics.
func (p *Prometheus) StatusChangeObserved(status, outcome string) {
	if outcome != ports.OutcomeOK {
		// evita cardinalidad ilimitada con estados inválidos enviados por el cliente
		status = "rejected"
	}
	p.statusChanges.WithLabelValues(status, outcome).Inc()
}

// ExpirationAtRisk implementa ports.Metrics.
func (p *Prometheus) ExpirationAtRisk(count int) {
	p.atRisk.Set(float64(count))
}

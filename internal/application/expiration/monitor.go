// Package expiration vigila los snapshots del registro y emite una alerta agregada
// cuando hay entradas en o bajo el umbral crítico de vencimiento.
package expiration

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/application/registry"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	domexp "github.com/jhoicas/Estoque-api/internal/domain/expiration"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// AtRisk entrada anotada con su riesgo de vencimiento.
type AtRisk struct {
	Entry         *entity.StockEntry
	DaysRemaining int
	Risk          domexp.Risk
}

// Alert alerta agregada para un snapshot: una por snapshot como máximo.
type Alert struct {
	Version uint64
	At      time.Time
	Entries []AtRisk // ordenadas por días restantes
}

// Alerter recibe las alertas del monitor.
type Alerter interface {
	Alert(ctx context.Context, alert Alert)
}

// Monitor política de alerta sobre los snapshots del registro. Nunca modifica estados.
type Monitor struct {
	reg     *registry.Registry
	alerter Alerter
	metrics ports.Metrics
	loc     *time.Location
	now     func() time.Time
}

// Option configura el monitor.
type Option func(*Monitor)

// WithMetrics publica la cantidad de entradas en riesgo.
func WithMetrics(m ports.Metrics) Option {
	return func(mo *Monitor) {
		if m != nil {
			mo.metrics = m
		}
	}
}

// WithLocation zona horaria en la que se interpretan las fechas de vencimiento.
func WithLocation(loc *time.Location) Option {
	return func(mo *Monitor) {
		if loc != nil {
			mo.loc = loc
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(mo *Monitor) { mo.now = now }
}

// NewMonitor construye el monitor.
func NewMonitor(reg *registry.Registry, alerter Alerter, opts ...Option) *Monitor {
	m := &Monitor{
		reg:     reg,
		alerter: alerter,
		metrics: ports.NopMetrics{},
		loc:     time.UTC,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Annotate calcula días restantes y riesgo de cada entrada.
func Annotate(entries []*entity.StockEntry, now time.Time, loc *time.Location) []AtRisk {
	out := make([]AtRisk, 0, len(entries))
	for _, e := range entries {
		days := domexp.DaysRemaining(e.ExpiresAt(loc), now)
		out = append(out, AtRisk{Entry: e, DaysRemaining: days, Risk: domexp.Classify(days)})
	}
	return out
}

// Critical filtra las entradas en o bajo el umbral crítico, las más urgentes primero.
func Critical(entries []*entity.StockEntry, now time.Time, loc *time.Location) []AtRisk {
	var out []AtRisk
	for _, a := range Annotate(entries, now, loc) {
		if domexp.AtOrBelowCritical(a.DaysRemaining) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysRemaining < out[j].DaysRemaining })
	return out
}

// Evaluate devuelve la alerta del snapshot, o false si ninguna entrada está en riesgo.
func (m *Monitor) Evaluate(snap registry.Snapshot) (Alert, bool) {
	now := m.now()
	critical := Critical(snap.Entries, now, m.loc)
	m.metrics.ExpirationAtRisk(len(critical))
	if len(critical) == 0 {
		return Alert{}, false
	}
	return Alert{Version: snap.Version, At: now, Entries: critical}, true
}

// Run suscribe el monitor al registro hasta que ctx se cancele o se cancele la suscripción.
func (m *Monitor) Run(ctx context.Context) (*registry.Subscription, error) {
	return m.reg.Subscribe(ctx, func(snap registry.Snapshot) {
		if alert, ok := m.Evaluate(snap); ok && m.alerter != nil {
			m.alerter.Alert(ctx, alert)
		}
	})
}

// LogAlerter escribe cada alerta como warning estructurado.
type LogAlerter struct {
	log *logger.Logger
}

// NewLogAlerter construye el alerter.
func NewLogAlerter(log *logger.Logger) *LogAlerter {
	if log == nil {
		log = logger.Nop()
	}
	return &LogAlerter{log: log.Component("expiration")}
}

// Alert implementa Alerter.
func (a *LogAlerter) Alert(_ context.Context, alert Alert) {
	skus := make([]string, 0, len(alert.Entries))
	for _, e := range alert.Entries {
		skus = append(skus, e.Entry.SKU)
	}
	a.log.Warn().
		Uint64("version", alert.Version).
		Int("at_risk", len(alert.Entries)).
		Strs("skus", skus).
		Msg("hay ítems que vencen en 7 días o menos")
}

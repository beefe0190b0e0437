package ports

// Resultados de una operación de mutación, usados como etiqueta de métricas.
const (
	OutcomeOK                = "ok"
	OutcomeValidation        = "validation"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeStoreError        = "store_error"
)

// Metrics puerto de salida para métricas operativas del motor de stock.
// Los adaptadores (Prometheus, no-op) no deben bloquear al caller.
type Metrics interface {
	// WithdrawalObserved registra una retirada; units solo cuenta cuando outcome es OutcomeOK.
	WithdrawalObserved(outcome string, units int)
	StatusChangeObserved(status, outcome string)
	// ExpirationAtRisk publica cuántas entradas están en o bajo el umbral crítico.
	ExpirationAtRisk(count int)
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) WithdrawalObserved(string, int)     {}
func (NopMetrics) StatusChangeObserved(string, string) {}
func (NopMetrics) ExpirationAtRisk(int)                {}

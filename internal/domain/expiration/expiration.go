// Package expiration clasifica el riesgo de vencimiento de una entrada de stock.
// Funciones puras de (vencimiento, ahora); no guardan estado ni producen efectos.
package expiration

import (
	"math"
	"time"
)

// Never días restantes de una entrada sin fecha de vencimiento (+∞).
const Never = math.MaxInt

// Umbrales de la tabla de riesgo (días restantes, inclusivos).
const (
	ExpiredThreshold  = 2
	CriticalThreshold = 7
	WarningThreshold  = 30
)

const day = 24 * time.Hour

// Risk bucket de riesgo derivado de los días restantes.
type Risk string

const (
	RiskNormal   Risk = "Normal"
	RiskWarning  Risk = "Warning"
	RiskCritical Risk = "Critical"
	RiskExpired  Risk = "Expired"
)

// DaysRemaining = ceil((exp - now) / 1 día). Sin vencimiento devuelve Never.
func DaysRemaining(exp *time.Time, now time.Time) int {
	if exp == nil {
		return Never
	}
	d := exp.Sub(now)
	days := int(d / day)
	// División entera trunca hacia cero: solo un resto positivo sube al siguiente día.
	if d%day > 0 {
		days++
	}
	return days
}

// Classify aplica la tabla en orden estricto.
func Classify(days int) Risk {
	switch {
	case days <= ExpiredThreshold:
		return RiskExpired
	case days <= CriticalThreshold:
		return RiskCritical
	case days <= WarningThreshold:
		return RiskWarning
	default:
		return RiskNormal
	}
}

// ClassifyDate atajo de Classify(DaysRemaining(exp, now)).
func ClassifyDate(exp *time.Time, now time.Time) Risk {
	return Classify(DaysRemaining(exp, now))
}

// AtOrBelowCritical indica si la entrada entra en la alerta agregada (≤ 7 días).
func AtOrBelowCritical(days int) bool {
	return days <= CriticalThreshold
}

// Package query filtra el ledger de retiradas y el listado de stock. Funciones puras sobre snapshots.
package query

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// AllResponsible comodín que desactiva el filtro por responsable.
const AllResponsible = "all"

// Filter criterios de búsqueda sobre el ledger. Campos vacíos no filtran.
type Filter struct {
	Text        string
	Responsible string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// Result subconjunto filtrado en el orden de entrada.
type Result struct {
	Count   int
	Records []*entity.WithdrawalRecord
}

// Query aplica el filtro preservando el orden.
// El rango de fechas es inclusivo y solo se aplica cuando vienen ambos extremos.
func Query(records []*entity.WithdrawalRecord, f Filter) Result {
	// cases.Caser no es seguro para uso concurrente
	fold := cases.Fold()
	text := fold.String(strings.TrimSpace(f.Text))
	responsible := strings.TrimSpace(f.Responsible)
	useDates := f.DateFrom != nil && f.DateTo != nil

	out := make([]*entity.WithdrawalRecord, 0, len(records))
	for _, r := range records {
		if text != "" &&
			!strings.Contains(fold.String(r.ProductName), text) &&
			!strings.Contains(fold.String(r.SKU), text) {
			continue
		}
		if responsible != "" && responsible != AllResponsible && r.Responsible != responsible {
			continue
		}
		if useDates {
			d := dayKey(r.WithdrawalDate)
			if d < dayKey(*f.DateFrom) || d > dayKey(*f.DateTo) {
				continue
			}
		}
		out = append(out, r)
	}
	return Result{Count: len(out), Records: out}
}

// dayKey compara fechas de calendario sin hora (AAAAMMDD).
func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

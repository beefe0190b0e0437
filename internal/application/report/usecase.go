// Package report arma el reporte imprimible de retiradas a partir de una consulta.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/application/query"
)

// Searcher consulta el ledger con un filtro.
type Searcher interface {
	Search(ctx context.Context, f query.Filter) (query.Result, error)
}

// UseCase genera el PDF de retiradas para un filtro.
type UseCase struct {
	search    Searcher
	generator ports.ReportGenerator
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(search Searcher, generator ports.ReportGenerator) *UseCase {
	return &UseCase{search: search, generator: generator, now: time.Now}
}

// WithdrawalsPDF aplica el filtro y devuelve el documento.
func (uc *UseCase) WithdrawalsPDF(ctx context.Context, f query.Filter) ([]byte, error) {
	res, err := uc.search.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, r := range res.Records {
		total += r.Quantity
	}
	doc, err := uc.generator.GenerateWithdrawalReport(ctx, ports.WithdrawalReport{
		Title:       "Histórico de retiradas",
		GeneratedAt: uc.now(),
		Filters:     Describe(f),
		Records:     res.Records,
		TotalUnits:  total,
	})
	if err != nil {
		return nil, fmt.Errorf("generar reporte: %w", err)
	}
	return doc, nil
}

// Describe texto legible de los filtros activos.
func Describe(f query.Filter) []string {
	var out []string
	if f.Text != "" {
		out = append(out, "Texto: "+f.Text)
	}
	if f.Responsible != "" && f.Responsible != query.AllResponsible {
		out = append(out, "Responsable: "+f.Responsible)
	}
	if f.DateFrom != nil && f.DateTo != nil {
		out = append(out, fmt.Sprintf("Período: %s a %s", f.DateFrom.Format("02/01/2006"), f.DateTo.Format("02/01/2006")))
	}
	return out
}

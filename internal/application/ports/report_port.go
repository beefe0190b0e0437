package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// WithdrawalReport datos de entrada para el reporte imprimible de retiradas.
type WithdrawalReport struct {
	Title       string
	GeneratedAt time.Time
	Filters     []string // descripción legible de los filtros aplicados
	Records     []*entity.WithdrawalRecord
	TotalUnits  int
}

// ReportGenerator genera el documento del reporte (PDF) y devuelve sus bytes.
type ReportGenerator interface {
	GenerateWithdrawalReport(ctx context.Context, report WithdrawalReport) ([]byte, error)
}

// Package pdf genera el reporte imprimible del histórico de retiradas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                   │  Fecha de emisión       │
//	│  FILTROS aplicados                                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | SKU | Producto | Marca | Cant | Resp | Local │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: registros / unidades retiradas                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 76, Green: 29, Blue: 149}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 243, Green: 240, Blue: 250}
)

var _ ports.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa ports.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	author string
}

// NewMarotoReportGenerator construye el generador. author aparece en los metadatos del PDF.
func NewMarotoReportGenerator(author string) *MarotoReportGenerator {
	return &MarotoReportGenerator{author: author}
}

// GenerateWithdrawalReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateWithdrawalReport(_ context.Context, report ports.WithdrawalReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor(nonEmpty(g.author, "Estoque"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	if len(report.Filters) > 0 {
		m.AddRows(filtersRow(report.Filters))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Records)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(len(report.Records), report.TotalUnits))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report ports.WithdrawalReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Emitido: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func filtersRow(filters []string) core.Row {
	joined := ""
	for i, f := range filters {
		if i > 0 {
			joined += "   |   "
		}
		joined += f
	}
	return row.New(7).Add(col.New(12).Add(
		text.New(joined, props.Text{Size: 8, Top: 1, Color: colorGray}),
	))
}

// tableHeaderRow: anchos sobre una grilla de 12 columnas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 1, align.Left),
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Marca", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Responsable", 2, align.Left),
		h("Local", 1, align.Left),
	)
}

func tableRows(records []*entity.WithdrawalRecord) []core.Row {
	result := make([]core.Row, 0, len(records))
	for i, r := range records {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		rw := row.New(6).Add(
			cell(r.WithdrawalDate.Format("02/01/06"), 1, align.Left),
			cell(r.SKU, 2, align.Left),
			cell(r.ProductName, 3, align.Left),
			cell(nonEmpty(r.Brand, "—"), 2, align.Left),
			cell(strconv.Itoa(r.Quantity), 1, align.Center),
			cell(r.Responsible, 2, align.Left),
			cell(nonEmpty(r.Location, "—"), 1, align.Left),
		)
		if i%2 == 1 {
			rw = rw.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, rw)
	}
	if len(result) == 0 {
		result = append(result, row.New(10).Add(col.New(12).Add(
			text.New("Ninguna retirada coincide con los filtros.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	return result
}

func totalsRow(count, units int) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(6).Add(
			text.New(fmt.Sprintf("Registros: %d   |   Unidades retiradas: %d", count, units), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

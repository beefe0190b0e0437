// Package csvimport carga el stock inicial desde la planilla exportada a CSV.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// Columnas obligatorias del encabezado; el resto es opcional y puede venir en cualquier orden.
var requiredColumns = []string{"sku", "product_name", "quantity"}

// Fechas aceptadas: ISO y el formato dd/mm/aaaa de la planilla.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// Options formato del archivo.
type Options struct {
	Charset string // utf-8 (por defecto), iso-8859-1, windows-1252
	Comma   rune   // separador; 0 = ','
}

// Decoder envuelve r según el charset declarado.
func Decoder(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", charset)
}

// LoadStock lee todas las filas. Un error en cualquier fila aborta la carga indicando la línea.
func LoadStock(r io.Reader, opts Options) ([]*entity.StockEntry, error) {
	in, err := Decoder(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(in)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("el CSV debe tener encabezado y al menos una fila")
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q en el encabezado", c)
		}
	}

	entries := make([]*entity.StockEntry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRow(rec []string, cols map[string]int) (*entity.StockEntry, error) {
	get := func(name string) string {
		if i, ok := cols[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	qty, err := strconv.Atoi(get("quantity"))
	if err != nil || qty < 0 {
		return nil, fmt.Errorf("cantidad inválida: %q", get("quantity"))
	}
	e := &entity.StockEntry{
		SKU:          get("sku"),
		ProductName:  get("product_name"),
		Brand:        get("brand"),
		Location:     get("location"),
		Observations: get("observations"),
		Quantity:     qty,
		Status:       entity.StatusNew,
	}
	if e.SKU == "" || e.ProductName == "" {
		return nil, fmt.Errorf("sku y product_name son obligatorios")
	}
	if raw := get("status"); raw != "" {
		st, ok := entity.ParseStatus(raw)
		if !ok {
			return nil, fmt.Errorf("estado inválido: %q", raw)
		}
		e.Status = st
	}
	if raw := get("expiration_date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			return nil, err
		}
		e.ExpirationDate = &d
	}
	return e, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha de vencimiento inválida: %q", raw)
}

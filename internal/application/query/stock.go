package query

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	domexp "github.com/jhoicas/Estoque-api/internal/domain/expiration"
)

// StockFilter filtro del listado de stock: texto sobre producto, marca o SKU y estado exacto.
type StockFilter struct {
	Text   string
	Status entity.Status
}

// StockItem entrada anotada con su riesgo de vencimiento.
type StockItem struct {
	Entry         *entity.StockEntry
	DaysRemaining int
	Risk          domexp.Risk
}

// StockListing listado filtrado con conteo por estado sobre todas las entradas.
type StockListing struct {
	Count  int
	Items  []StockItem
	Counts map[entity.Status]int
}

// StockQuery filtra, ordena por nombre de producto y anota días restantes y riesgo.
func StockQuery(entries []*entity.StockEntry, f StockFilter, now time.Time, loc *time.Location) StockListing {
	fold := cases.Fold()
	text := fold.String(strings.TrimSpace(f.Text))

	counts := make(map[entity.Status]int, len(entity.Statuses))
	for _, s := range entity.Statuses {
		counts[s] = 0
	}
	items := make([]StockItem, 0, len(entries))
	for _, e := range entries {
		if _, ok := counts[e.Status]; ok {
			counts[e.Status]++
		}
		if text != "" &&
			!strings.Contains(fold.String(e.ProductName), text) &&
			!strings.Contains(fold.String(e.Brand), text) &&
			!strings.Contains(fold.String(e.SKU), text) {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		days := domexp.DaysRemaining(e.ExpiresAt(loc), now)
		items = append(items, StockItem{Entry: e, DaysRemaining: days, Risk: domexp.Classify(days)})
	}

	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(items[i].Entry.ProductName, items[j].Entry.ProductName) < 0
	})
	return StockListing{Count: len(items), Items: items, Counts: counts}
}

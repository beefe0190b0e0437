package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación en memoria de StockRepository.
type StockRepo struct {
	s  *Store
	st *state // nil = autocommit
}

// Create persiste una entrada nueva; el SKU es único.
func (r *StockRepo) Create(_ context.Context, entry *entity.StockEntry) error {
	return r.s.with(r.st, "stock.create", func(st *state) error {
		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		for _, e := range st.stock {
			if e.SKU == entry.SKU {
				return domain.Duplicate("sku ya registrado: %s", entry.SKU)
			}
		}
		now := time.Now()
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		entry.UpdatedAt = now
		st.stock[entry.ID] = *entry
		return nil
	})
}

// GetByID obtiene una entrada por ID.
func (r *StockRepo) GetByID(_ context.Context, id string) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := r.s.with(r.st, "stock.get", func(st *state) error {
		if e, ok := st.stock[id]; ok {
			out = &e
		}
		return nil
	})
	return out, err
}

// GetBySKU obtiene una entrada por SKU.
func (r *StockRepo) GetBySKU(_ context.Context, sku string) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := r.s.with(r.st, "stock.get", func(st *state) error {
		for _, e := range st.stock {
			if e.SKU == sku {
				e := e
				out = &e
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetBySKUForUpdate equivale a GetBySKU: la transacción ya tiene el store en exclusiva.
func (r *StockRepo) GetBySKUForUpdate(ctx context.Context, sku string) (*entity.StockEntry, error) {
	return r.GetBySKU(ctx, sku)
}

// GetByIDForUpdate equivale a GetByID.
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockEntry, error) {
	return r.GetByID(ctx, id)
}

// List devuelve todas las entradas ordenadas por SKU.
func (r *StockRepo) List(_ context.Context) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	err := r.s.with(r.st, "stock.list", func(st *state) error {
		out = make([]*entity.StockEntry, 0, len(st.stock))
		for _, e := range st.stock {
			e := e
			out = append(out, &e)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
		return nil
	})
	return out, err
}

// Update aplica el patch. Rechaza cantidades negativas como lo haría el CHECK de la tabla.
func (r *StockRepo) Update(_ context.Context, id string, patch entity.StockPatch) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := r.s.with(r.st, "stock.update", func(st *state) error {
		e, ok := st.stock[id]
		if !ok {
			return nil
		}
		next := patch.Apply(e)
		if next.Quantity < 0 {
			return domain.Validation("cantidad negativa no permitida")
		}
		next.UpdatedAt = time.Now()
		st.stock[id] = next
		out = &next
		return nil
	})
	return out, err
}

// DecrementQuantity resta qty solo si hay cantidad suficiente.
func (r *StockRepo) DecrementQuantity(_ context.Context, id string, qty int) (int, error) {
	remaining := 0
	err := r.s.with(r.st, "stock.decrement", func(st *state) error {
		e, ok := st.stock[id]
		if !ok {
			return domain.NotFound("entrada de stock no encontrada: %s", id)
		}
		if e.Quantity < qty {
			return domain.InsufficientStock("stock insuficiente: disponible %d, solicitado %d", e.Quantity, qty)
		}
		e.Quantity -= qty
		e.UpdatedAt = time.Now()
		st.stock[id] = e
		remaining = e.Quantity
		return nil
	})
	return remaining, err
}

// Delete elimina una entrada por ID.
func (r *StockRepo) Delete(_ context.Context, id string) error {
	return r.s.with(r.st, "stock.delete", func(st *state) error {
		delete(st.stock, id)
		return nil
	})
}

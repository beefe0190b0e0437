package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// StockRepository puerto de persistencia para entradas de stock (almacén por claves, sin reglas de negocio).
// Los Get devuelven (nil, nil) cuando la entrada no existe.
type StockRepository interface {
	Create(ctx context.Context, entry *entity.StockEntry) error
	GetByID(ctx context.Context, id string) (*entity.StockEntry, error)
	GetBySKU(ctx context.Context, sku string) (*entity.StockEntry, error)
	// GetBySKUForUpdate / GetByIDForUpdate bloquean la fila hasta el fin de la transacción.
	GetBySKUForUpdate(ctx context.Context, sku string) (*entity.StockEntry, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockEntry, error)
	List(ctx context.Context) ([]*entity.StockEntry, error)
	// Update aplica un patch por campos y devuelve la entrada resultante (nil si no existe).
	Update(ctx context.Context, id string, patch entity.StockPatch) (*entity.StockEntry, error)
	// DecrementQuantity resta qty solo si quantity >= qty (compare-and-swap) y devuelve la cantidad restante.
	// Devuelve domain.ErrInsufficientStock si la condición no se cumple.
	DecrementQuantity(ctx context.Context, id string, qty int) (int, error)
	Delete(ctx context.Context, id string) error
}

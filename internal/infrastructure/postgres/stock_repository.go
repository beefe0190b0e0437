package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id, sku, product_name, brand, location, observations, quantity,
	expiration_date, status, status_reason, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row) (*entity.StockEntry, error) {
	var e entity.StockEntry
	var status string
	err := row.Scan(
		&e.ID, &e.SKU, &e.ProductName, &e.Brand, &e.Location, &e.Observations, &e.Quantity,
		&e.ExpirationDate, &status, &e.StatusReason, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = entity.Status(status)
	return &e, nil
}

// Create persiste una entrada nueva. SKU duplicado -> domain.ErrDuplicate.
func (r *StockRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (id, sku, product_name, brand, location, observations, quantity,
			expiration_date, status, status_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		e.ID, e.SKU, e.ProductName, e.Brand, e.Location, e.Observations, e.Quantity,
		e.ExpirationDate, string(e.Status), e.StatusReason,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("sku ya registrado: %s", e.SKU)
		}
		if isCheckViolation(err) {
			return domain.Validation("cantidad negativa no permitida")
		}
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}

func (r *StockRepo) getOne(ctx context.Context, op, query string, arg string) (*entity.StockEntry, error) {
	e, err := scanStock(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// GetByID obtiene una entrada por ID.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get stock entry", `SELECT `+stockColumns+` FROM stock_entries WHERE id = $1`, id)
}

// GetBySKU obtiene una entrada por SKU.
func (r *StockRepo) GetBySKU(ctx context.Context, sku string) (*entity.StockEntry, error) {
	return r.getOne(ctx, "get stock entry by sku", `SELECT `+stockColumns+` FROM stock_entries WHERE sku = $1`, sku)
}

// GetBySKUForUpdate obtiene la entrada y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetBySKUForUpdate(ctx context.Context, sku string) (*entity.StockEntry, error) {
	return r.getOne(ctx, "get stock entry for update", `SELECT `+stockColumns+` FROM stock_entries WHERE sku = $1 FOR UPDATE`, sku)
}

// GetByIDForUpdate obtiene la entrada por ID y bloquea la fila.
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockEntry, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get stock entry for update", `SELECT `+stockColumns+` FROM stock_entries WHERE id = $1 FOR UPDATE`, id)
}

// List devuelve todas las entradas ordenadas por SKU.
func (r *StockRepo) List(ctx context.Context) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM stock_entries ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockEntry
	for rows.Next() {
		e, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	return out, nil
}

// Update aplica el patch campo por campo (COALESCE) y devuelve la fila resultante.
func (r *StockRepo) Update(ctx context.Context, id string, p entity.StockPatch) (*entity.StockEntry, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var status *string
	if p.Status != nil {
		s := string(*p.Status)
		status = &s
	}
	query := `
		UPDATE stock_entries SET
			product_name    = COALESCE($2, product_name),
			brand           = COALESCE($3, brand),
			location        = COALESCE($4, location),
			observations    = COALESCE($5, observations),
			quantity        = COALESCE($6, quantity),
			expiration_date = CASE WHEN $7 THEN NULL ELSE COALESCE($8, expiration_date) END,
			status          = COALESCE($9, status),
			status_reason   = COALESCE($10, status_reason),
			updated_at      = now()
		WHERE id = $1
		RETURNING ` + stockColumns
	e, err := scanStock(r.q.QueryRow(ctx, query,
		id, p.ProductName, p.Brand, p.Location, p.Observations, p.Quantity,
		p.ClearExpiration, p.ExpirationDate, status, p.StatusReason,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isCheckViolation(err) {
			return nil, domain.Validation("cantidad negativa no permitida")
		}
		return nil, fmt.Errorf("update stock entry: %w", err)
	}
	return e, nil
}

// DecrementQuantity resta qty de forma condicional: la fila solo cambia si quantity >= qty.
func (r *StockRepo) DecrementQuantity(ctx context.Context, id string, qty int) (int, error) {
	query := `
		UPDATE stock_entries SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING quantity`
	var remaining int
	err := r.q.QueryRow(ctx, query, id, qty).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.InsufficientStock("stock insuficiente para retirar %d", qty)
		}
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return remaining, nil
}

// Delete elimina una entrada por ID.
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock entry: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var (
	_ repository.WithdrawalRepository   = (*WithdrawalRepo)(nil)
	_ repository.StatusChangeRepository = (*StatusChangeRepo)(nil)
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
)

// WithdrawalRepo ledger de retiradas sobre PostgreSQL. Solo INSERT y SELECT.
type WithdrawalRepo struct {
	q Querier
}

// NewWithdrawalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWithdrawalRepository(q Querier) *WithdrawalRepo {
	return &WithdrawalRepo{q: q}
}

const withdrawalColumns = `id, sku, product_name, brand, quantity, responsible, location, withdrawal_date, created_at, created_by`

func scanWithdrawal(row pgx.Row) (*entity.WithdrawalRecord, error) {
	var w entity.WithdrawalRecord
	err := row.Scan(&w.ID, &w.SKU, &w.ProductName, &w.Brand, &w.Quantity, &w.Responsible,
		&w.Location, &w.WithdrawalDate, &w.CreatedAt, &w.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Append inserta un registro inmutable.
func (r *WithdrawalRepo) Append(ctx context.Context, w *entity.WithdrawalRecord) error {
	query := `
		INSERT INTO withdrawals (` + withdrawalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, w.ID, w.SKU, w.ProductName, w.Brand, w.Quantity, w.Responsible,
		w.Location, w.WithdrawalDate, w.CreatedAt, w.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// GetByID obtiene un registro por ID.
func (r *WithdrawalRepo) GetByID(ctx context.Context, id string) (*entity.WithdrawalRecord, error) {
	if !isUUID(id) {
		return nil, nil
	}
	w, err := scanWithdrawal(r.q.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get withdrawal: %w", err)
	}
	return w, nil
}

// List devuelve el ledger completo, más reciente primero.
func (r *WithdrawalRepo) List(ctx context.Context) ([]*entity.WithdrawalRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()
	var out []*entity.WithdrawalRecord
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// StatusChangeRepo historial de estados sobre PostgreSQL.
type StatusChangeRepo struct {
	q Querier
}

// NewStatusChangeRepository construye el adaptador.
func NewStatusChangeRepository(q Querier) *StatusChangeRepo {
	return &StatusChangeRepo{q: q}
}

// Append inserta una fila de auditoría.
func (r *StatusChangeRepo) Append(ctx context.Context, c *entity.StatusChange) error {
	query := `
		INSERT INTO status_changes (id, stock_id, sku, old_status, new_status, reason, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, c.ID, c.StockID, c.SKU, string(c.OldStatus), string(c.NewStatus),
		c.Reason, c.ChangedBy, c.ChangedAt)
	if err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}
	return nil
}

// ListByStock historial de una entrada, más reciente primero.
func (r *StatusChangeRepo) ListByStock(ctx context.Context, stockID string) ([]*entity.StatusChange, error) {
	query := `
		SELECT id, stock_id, sku, old_status, new_status, reason, changed_by, changed_at
		FROM status_changes WHERE stock_id = $1
		ORDER BY changed_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, stockID)
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	defer rows.Close()
	var out []*entity.StatusChange
	for rows.Next() {
		var c entity.StatusChange
		var oldStatus, newStatus string
		if err := rows.Scan(&c.ID, &c.StockID, &c.SKU, &oldStatus, &newStatus, &c.Reason, &c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		c.OldStatus, c.NewStatus = entity.Status(oldStatus), entity.Status(newStatus)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// NotificationRepo feed de notificaciones sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Append inserta una notificación.
func (r *NotificationRepo) Append(ctx context.Context, n *entity.Notification) error {
	query := `INSERT INTO notifications (id, actor, item, quantity, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, n.ID, n.Actor, n.Item, n.Quantity, n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListRecent devuelve hasta limit notificaciones, más reciente primero.
func (r *NotificationRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, actor, item, quantity, created_at FROM notifications
		ORDER BY created_at DESC, seq DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var out []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.Actor, &n.Item, &n.Quantity, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

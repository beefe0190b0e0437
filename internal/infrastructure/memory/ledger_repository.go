package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var (
	_ repository.WithdrawalRepository   = (*WithdrawalRepo)(nil)
	_ repository.StatusChangeRepository = (*StatusChangeRepo)(nil)
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
)

// WithdrawalRepo ledger en memoria.
type WithdrawalRepo struct {
	s  *Store
	st *state
}

// Append agrega un registro al ledger.
func (r *WithdrawalRepo) Append(_ context.Context, record *entity.WithdrawalRecord) error {
	return r.s.with(r.st, "withdrawals.append", func(st *state) error {
		if record.ID == "" {
			record.ID = uuid.New().String()
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now()
		}
		st.withdrawals = append(st.withdrawals, *record)
		return nil
	})
}

// GetByID obtiene un registro por ID.
func (r *WithdrawalRepo) GetByID(_ context.Context, id string) (*entity.WithdrawalRecord, error) {
	var out *entity.WithdrawalRecord
	err := r.s.with(r.st, "withdrawals.get", func(st *state) error {
		for _, w := range st.withdrawals {
			if w.ID == id {
				w := w
				out = &w
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List devuelve el ledger, más reciente primero.
func (r *WithdrawalRepo) List(_ context.Context) ([]*entity.WithdrawalRecord, error) {
	var out []*entity.WithdrawalRecord
	err := r.s.with(r.st, "withdrawals.list", func(st *state) error {
		out = make([]*entity.WithdrawalRecord, 0, len(st.withdrawals))
		for i := len(st.withdrawals) - 1; i >= 0; i-- {
			w := st.withdrawals[i]
			out = append(out, &w)
		}
		return nil
	})
	return out, err
}

// StatusChangeRepo historial de estados en memoria.
type StatusChangeRepo struct {
	s  *Store
	st *state
}

// Append agrega una fila de auditoría.
func (r *StatusChangeRepo) Append(_ context.Context, change *entity.StatusChange) error {
	return r.s.with(r.st, "status_changes.append", func(st *state) error {
		if change.ID == "" {
			change.ID = uuid.New().String()
		}
		if change.ChangedAt.IsZero() {
			change.ChangedAt = time.Now()
		}
		st.changes = append(st.changes, *change)
		return nil
	})
}

// ListByStock historial de una entrada, más reciente primero.
func (r *StatusChangeRepo) ListByStock(_ context.Context, stockID string) ([]*entity.StatusChange, error) {
	var out []*entity.StatusChange
	err := r.s.with(r.st, "status_changes.list", func(st *state) error {
		for i := len(st.changes) - 1; i >= 0; i-- {
			if c := st.changes[i]; c.StockID == stockID {
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

// NotificationRepo feed de notificaciones en memoria.
type NotificationRepo struct {
	s  *Store
	st *state
}

// Append agrega una notificación.
func (r *NotificationRepo) Append(_ context.Context, n *entity.Notification) error {
	return r.s.with(r.st, "notifications.append", func(st *state) error {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		st.notifications = append(st.notifications, *n)
		return nil
	})
}

// ListRecent devuelve hasta limit notificaciones, más reciente primero.
func (r *NotificationRepo) ListRecent(_ context.Context, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	err := r.s.with(r.st, "notifications.list", func(st *state) error {
		for i := len(st.notifications) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			n := st.notifications[i]
			out = append(out, &n)
		}
		return nil
	})
	return out, err
}

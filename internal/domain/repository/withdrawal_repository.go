package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// WithdrawalRepository ledger append-only de retiradas: no hay Update ni Delete.
type WithdrawalRepository interface {
	Append(ctx context.Context, record *entity.WithdrawalRecord) error
	GetByID(ctx context.Context, id string) (*entity.WithdrawalRecord, error)
	// List devuelve el ledger completo, más reciente primero (CreatedAt DESC).
	List(ctx context.Context) ([]*entity.WithdrawalRecord, error)
}

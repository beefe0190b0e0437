package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// StatusChangeRepository historial de auditoría de estados.
type StatusChangeRepository interface {
	Append(ctx context.Context, change *entity.StatusChange) error
	ListByStock(ctx context.Context, stockID string) ([]*entity.StatusChange, error)
}

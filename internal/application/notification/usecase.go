// Package notification expone el feed de notificaciones de retiradas.
package notification

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// DefaultLimit cantidad de notificaciones devueltas cuando no se indica límite.
const DefaultLimit = 50

// MaxLimit tope de notificaciones por consulta.
const MaxLimit = 500

// UseCase lectura del feed.
type UseCase struct {
	repo repository.NotificationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.NotificationRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List devuelve las notificaciones más recientes primero.
func (uc *UseCase) List(ctx context.Context, limit int) ([]*entity.Notification, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	list, err := uc.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, domain.StoreFailure("leer notificaciones", err)
	}
	return list, nil
}

package inventory

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se descartan todas las escrituras.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// SnapshotPublisher difunde el estado confirmado a los suscriptores del registro.
type SnapshotPublisher interface {
	Publish(ctx context.Context) error
}

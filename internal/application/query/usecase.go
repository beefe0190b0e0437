package query

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// UseCase consulta el ledger de retiradas.
type UseCase struct {
	ledger repository.WithdrawalRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(ledger repository.WithdrawalRepository) *UseCase {
	return &UseCase{ledger: ledger}
}

// Search lee el ledger (más reciente primero) y aplica el filtro.
func (uc *UseCase) Search(ctx context.Context, f Filter) (Result, error) {
	records, err := uc.ledger.List(ctx)
	if err != nil {
		return Result{}, domain.StoreFailure("leer retiradas", err)
	}
	return Query(records, f), nil
}

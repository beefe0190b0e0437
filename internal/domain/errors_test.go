package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Estoque-api/internal/domain"
)

func TestError_KindsViaErrorsIs(t *testing.T) {
	err := domain.InsufficientStock("stock insuficiente: disponible 3, solicitado 5")

	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.True(t, errors.Is(err, domain.ErrConflict), "insuficiente es un conflicto")
	assert.False(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, "stock insuficiente: disponible 3, solicitado 5", err.Error())
	assert.True(t, domain.IsBusinessRejection(err))
}

func TestStoreFailure_EnvuelveCausa(t *testing.T) {
	cause := errors.New("connection refused")
	err := domain.StoreFailure("actualizar stock", fmt.Errorf("update stock: %w", cause))

	assert.True(t, errors.Is(err, domain.ErrStore))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "actualizar stock")
	assert.False(t, domain.IsBusinessRejection(err))
}

func TestStoreFailure_RespetaRechazosDeDominio(t *testing.T) {
	rejection := domain.NotFound("sku desconocido: X")
	assert.Same(t, rejection, domain.StoreFailure("leer stock", rejection))
	assert.Nil(t, domain.StoreFailure("op", nil))
}

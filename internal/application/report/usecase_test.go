package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/application/query"
	"github.com/jhoicas/Estoque-api/internal/application/report"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/memory"
)

type fakeGenerator struct {
	got ports.WithdrawalReport
	err error
}

func (g *fakeGenerator) GenerateWithdrawalReport(_ context.Context, r ports.WithdrawalReport) ([]byte, error) {
	g.got = r
	return []byte("%PDF"), g.err
}

func TestWithdrawalsPDF_TotalesYFiltros(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Repos().Withdrawals.Append(ctx, &entity.WithdrawalRecord{SKU: "A", ProductName: "Luva", Quantity: 3, Responsible: "Rita"}))
	require.NoError(t, store.Repos().Withdrawals.Append(ctx, &entity.WithdrawalRecord{SKU: "B", ProductName: "Gaze", Quantity: 2, Responsible: "Karol"}))
	require.NoError(t, store.Repos().Withdrawals.Append(ctx, &entity.WithdrawalRecord{SKU: "C", ProductName: "Soro", Quantity: 5, Responsible: "Rita"}))

	gen := &fakeGenerator{}
	uc := report.NewUseCase(query.NewUseCase(store.Repos().Withdrawals), gen)

	doc, err := uc.WithdrawalsPDF(ctx, query.Filter{Responsible: "Rita"})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), doc)
	assert.Len(t, gen.got.Records, 2)
	assert.Equal(t, 8, gen.got.TotalUnits)
	assert.Equal(t, []string{"Responsable: Rita"}, gen.got.Filters)
}

func TestWithdrawalsPDF_ErrorDelGenerador(t *testing.T) {
	store := memory.NewStore()
	uc := report.NewUseCase(query.NewUseCase(store.Repos().Withdrawals), &fakeGenerator{err: errors.New("fuente")})
	_, err := uc.WithdrawalsPDF(context.Background(), query.Filter{})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		[]string{"Texto: luva", "Período: 01/03/2024 a 31/03/2024"},
		report.Describe(query.Filter{Text: "luva", Responsible: "all", DateFrom: &from, DateTo: &to}))
	assert.Empty(t, report.Describe(query.Filter{DateFrom: &from}))
}

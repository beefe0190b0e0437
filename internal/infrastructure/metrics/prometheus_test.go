package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/ports"
)

func TestPrometheus_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg, "estoque")
	require.NoError(t, err)

	p.WithdrawalObserved(ports.OutcomeOK, 3)
	p.WithdrawalObserved(ports.OutcomeOK, 2)
	p.WithdrawalObserved(ports.OutcomeInsufficientStock, 0)
	p.StatusChangeObserved("Open", ports.OutcomeOK)
	p.StatusChangeObserved("Cualquiera", ports.OutcomeValidation)
	p.ExpirationAtRisk(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.withdrawals.WithLabelValues(ports.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.withdrawals.WithLabelValues(ports.OutcomeInsufficientStock)))
	assert.Equal(t, 5.0, testutil.ToFloat64(p.units))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.statusChanges.WithLabelValues("rejected", ports.OutcomeValidation)))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.atRisk))
}

func TestPrometheus_RegistroDuplicadoFalla(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg, "estoque")
	require.NoError(t, err)
	_, err = NewPrometheus(reg, "estoque")
	assert.Error(t, err)
}

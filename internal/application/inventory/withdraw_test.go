package inventory_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/memory"
)

var operator = entity.Operator{ID: "op-1", Role: "almoxarife"}

type countingPublisher struct{ calls atomic.Int32 }

func (p *countingPublisher) Publish(context.Context) error {
	p.calls.Add(1)
	return nil
}

type recordingMetrics struct {
	ports.NopMetrics
	mu       sync.Mutex
	outcomes []string
	units    int
}

func (m *recordingMetrics) WithdrawalObserved(outcome string, units int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	m.units += units
}

func seedEntry(t *testing.T, store *memory.Store, sku string, qty int) *entity.StockEntry {
	t.Helper()
	e := &entity.StockEntry{SKU: sku, ProductName: "Luva nitrílica", Brand: "Supermax", Quantity: qty, Status: entity.StatusNew}
	require.NoError(t, store.Repos().Stock.Create(context.Background(), e))
	return e
}

func validRequest(sku, qty string) inventory.WithdrawRequest {
	return inventory.WithdrawRequest{
		SKU:            sku,
		ProductName:    "Luva nitrílica",
		Brand:          "Supermax",
		Quantity:       qty,
		Responsible:    "Karol",
		Location:       "Sala 3",
		WithdrawalDate: "2024-05-10",
	}
}

func quantityOf(t *testing.T, store *memory.Store, sku string) int {
	t.Helper()
	e, err := store.Repos().Stock.GetBySKU(context.Background(), sku)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e.Quantity
}

func ledgerLen(t *testing.T, store *memory.Store) int {
	t.Helper()
	list, err := store.Repos().Withdrawals.List(context.Background())
	require.NoError(t, err)
	return len(list)
}

func TestWithdraw_Exitosa(t *testing.T) {
	store := memory.NewStore()
	seedEntry(t, store, "A1", 10)
	pub := &countingPublisher{}
	metrics := &recordingMetrics{}
	fixed := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
	uc := inventory.NewWithdrawUseCase(store, pub, nil,
		inventory.WithRoster("Karol", "Guilherme", "Rafael", "Rita"),
		inventory.WithMetrics(metrics),
		inventory.WithClock(func() time.Time { return fixed }))

	rec, err := uc.Withdraw(context.Background(), operator, validRequest("A1", "3"))
	require.NoError(t, err)

	assert.Equal(t, 7, quantityOf(t, store, "A1"))
	assert.Equal(t, 3, rec.Quantity)
	assert.Equal(t, "A1", rec.SKU)
	assert.Equal(t, "op-1", rec.CreatedBy)
	assert.Equal(t, fixed, rec.CreatedAt)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), rec.WithdrawalDate)
	assert.Equal(t, 1, ledgerLen(t, store))
	assert.Equal(t, int32(1), pub.calls.Load())
	assert.Equal(t, []string{ports.OutcomeOK}, metrics.outcomes)
	assert.Equal(t, 3, metrics.units)

	notes, err := store.Repos().Notifications.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Karol retiró 3 un. de Luva nitrílica", notes[0].Message())
}

func TestWithdraw_RetiraTodoYConservaEntrada(t *testing.T) {
	store := memory.NewStore()
	seedEntry(t, store, "A1", 5)
	uc := inventory.NewWithdrawUseCase(store, nil, nil)

	_, err := uc.Withdraw(context.Background(), operator, validRequest("A1", "5"))
	require.NoError(t, err)
	assert.Equal(t, 0, quantityOf(t, store, "A1"))
}

func TestWithdraw_PoliticaDeleteEliminaEntradaAgotada(t *testing.T) {
	store := memory.NewStore()
	seedEntry(t, store, "A1", 5)
	uc := inventory.NewWithdrawUseCase(store, nil, nil, inventory.WithZeroPolicy(inventory.ZeroDelete))

	_, err := uc.Withdraw(context.Background(), operator, validRequest("A1", "5"))
	require.NoError(t, err)

	e, err := store.Repos().Stock.GetBySKU(context.Background(), "A1")
	require.NoError(t, err)
	assert.Nil(t, e)
	assert.Equal(t, 1, ledgerLen(t, store))
}

func TestWithdraw_Rechazos(t *testing.T) {
	cases := []struct {
		name string
		mut  func(r *inventory.WithdrawRequest)
		kind error
		msg  string
	}{
		{"sin sku", func(r *inventory.WithdrawRequest) { r.SKU = "  " }, domain.ErrInvalidInput, "campo requerido: sku"},
		{"sin marca", func(r *inventory.WithdrawRequest) { r.Brand = "" }, domain.ErrInvalidInput, "campo requerido: brand"},
		{"sin responsable", func(r *inventory.WithdrawRequest) { r.Responsible = "" }, domain.ErrInvalidInput, "campo requerido: responsible"},
		{"sin fecha", func(r *inventory.WithdrawRequest) { r.WithdrawalDate = "" }, domain.ErrInvalidInput, "campo requerido: withdrawal_date"},
		{"cantidad cero", func(r *inventory.WithdrawRequest) { r.Quantity = "0" }, domain.ErrInvalidInput, "cantidad inválida: 0"},
		{"cantidad negativa", func(r *inventory.WithdrawRequest) { r.Quantity = "-2" }, domain.ErrInvalidInput, "cantidad inválida: -2"},
		{"cantidad no numérica", func(r *inventory.WithdrawRequest) { r.Quantity = "abc" }, domain.ErrInvalidInput, "cantidad inválida: abc"},
		{"cantidad fraccionaria", func(r *inventory.WithdrawRequest) { r.Quantity = "1.5" }, domain.ErrInvalidInput, "cantidad inválida: 1.5"},
		{"responsable fuera de nómina", func(r *inventory.WithdrawRequest) { r.Responsible = "Luciano" }, domain.ErrInvalidInput, "responsable desconocido: Luciano"},
		{"fecha mal formada", func(r *inventory.WithdrawRequest) { r.WithdrawalDate = "10/05/2024" }, domain.ErrInvalidInput, "fecha de retirada inválida: 10/05/2024"},
		{"sku desconocido", func(r *inventory.WithdrawRequest) { r.SKU = "ZZ" }, domain.ErrNotFound, "sku desconocido: ZZ"},
		{"stock insuficiente", func(r *inventory.WithdrawRequest) { r.Quantity = "11" }, domain.ErrInsufficientStock, "stock insuficiente: disponible 10, solicitado 11"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewStore()
			seedEntry(t, store, "A1", 10)
			pub := &countingPublisher{}
			uc := inventory.NewWithdrawUseCase(store, pub, nil, inventory.WithRoster("Karol", "Rita"))

			req := validRequest("A1", "3")
			tc.mut(&req)
			_, err := uc.Withdraw(context.Background(), operator, req)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, tc.msg, err.Error())
			assert.Equal(t, 10, quantityOf(t, store, "A1"))
			assert.Equal(t, 0, ledgerLen(t, store))
			assert.Equal(t, int32(0), pub.calls.Load())
		})
	}
}

func TestWithdraw_OrdenDeValidacion(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewWithdrawUseCase(store, nil, nil, inventory.WithRoster("Karol"))

	// campo faltante gana sobre cantidad inválida
	req := validRequest("A1", "abc")
	req.Location = ""
	_, err := uc.Withdraw(context.Background(), operator, req)
	assert.EqualError(t, err, "campo requerido: location")

	// cantidad inválida gana sobre SKU desconocido
	_, err = uc.Withdraw(context.Background(), operator, validRequest("NOPE", "0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWithdraw_ResponsableSeNormalizaSegunNomina(t *testing.T) {
	store := memory.NewStore()
	seedEntry(t, store, "A1", 10)
	uc := inventory.NewWithdrawUseCase(store, nil, nil, inventory.WithRoster("Karol", "Rita"))

	req := validRequest("A1", "1")
	req.Responsible = " rita "
	rec, err := uc.Withdraw(context.Background(), operator, req)
	require.NoError(t, err)
	assert.Equal(t, "Rita", rec.Responsible)
}

func TestWithdraw_FalloDelLedgerNoDescuenta(t *testing.T) {
	store := memory.NewStore()
	seedEntry(t, store, "A1", 10)
	store.FailOn("withdrawals.append", errors.New("disco lleno"))
	metrics := &recordingMetrics{}
	uc := inventory.NewWithdrawUseCase(store, nil, nil, inventory.WithMetrics(metrics))

	_, err := uc.Withdraw(context.Background(), operator, validRequest("A1", "4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.False(t, domain.IsBusinessRejection(err))

	store.FailOn("withdrawals.append", nil)
	assert.Equal(t, 10, quantityOf(t, store, "A1"))
	assert.Equal(t, 0, ledgerLen(t, store))
	assert.Equal(t, []string{ports.OutcomeStoreError}, metrics.outcomes)
}

func TestWithdraw_FalloDeNotificacionRevierteTodo(t *testing.T) {
	store := memory.NewStore()
	seedEntry(t, store, "A1", 10)
	store.FailOn("notifications.append", errors.New("timeout"))
	uc := inventory.NewWithdrawUseCase(store, nil, nil)

	_, err := uc.Withdraw(context.Background(), operator, validRequest("A1", "4"))
	assert.ErrorIs(t, err, domain.ErrStore)

	store.FailOn("notifications.append", nil)
	assert.Equal(t, 10, quantityOf(t, store, "A1"))
	assert.Equal(t, 0, ledgerLen(t, store))
}

func TestWithdraw_ConcurrentesNuncaDejanNegativo(t *testing.T) {
	store := memory.NewStore()
	seedEntry(t, store, "A1", 10)
	uc := inventory.NewWithdrawUseCase(store, nil, nil)

	var ok, insufficient atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Withdraw(context.Background(), operator, validRequest("A1", "1"))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), ok.Load())
	assert.Equal(t, int32(15), insufficient.Load())
	assert.Equal(t, 0, quantityOf(t, store, "A1"))
	assert.Equal(t, 10, ledgerLen(t, store))
}

func TestParseQuantity(t *testing.T) {
	valid := map[string]int{"5": 5, " 12 ": 12, "5.0": 5, "1e2": 100}
	for raw, want := range valid {
		got, ok := inventory.ParseQuantity(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"", "0", "-1", "1.5", "abc", "99999999999"} {
		_, ok := inventory.ParseQuantity(raw)
		assert.False(t, ok, raw)
	}
}

// La cantidad final es siempre la inicial menos lo retirado con éxito, y el ledger
// tiene exactamente una fila por retirada exitosa.
func TestProperty_ConservacionDeStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cantidad = inicial - suma de retiradas exitosas, nunca negativa", prop.ForAll(
		func(initial int, requests []int) bool {
			store := memory.NewStore()
			seedEntry(t, store, "P1", initial)
			uc := inventory.NewWithdrawUseCase(store, nil, nil)

			withdrawn, successes := 0, 0
			for _, q := range requests {
				_, err := uc.Withdraw(context.Background(), operator, validRequest("P1", strconv.Itoa(q)))
				if err == nil {
					withdrawn += q
					successes++
					continue
				}
				if !errors.Is(err, domain.ErrInsufficientStock) {
					t.Logf("FAIL: error inesperado: %v", err)
					return false
				}
			}
			left := quantityOf(t, store, "P1")
			if left < 0 || left != initial-withdrawn {
				t.Logf("FAIL: quedó %d, esperado %d", left, initial-withdrawn)
				return false
			}
			return ledgerLen(t, store) == successes
		},
		gen.IntRange(0, 50),
		gen.SliceOf(gen.IntRange(1, 15)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

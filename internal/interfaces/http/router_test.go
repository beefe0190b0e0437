package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/audit"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/notification"
	"github.com/jhoicas/Estoque-api/internal/application/query"
	"github.com/jhoicas/Estoque-api/internal/application/registry"
	"github.com/jhoicas/Estoque-api/internal/application/report"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Estoque-api/internal/interfaces/http"
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	reg   *registry.Registry
	token string
}

func newTestEnv(t *testing.T, auditRoles ...string) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	reg := registry.New(repos.Stock, nil)
	search := query.NewUseCase(repos.Withdrawals)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Registry:      reg,
		Status:        audit.NewStatusUseCase(store, reg, nil),
		History:       audit.NewHistory(repos.Stock, repos.StatusChanges),
		Withdraw:      inventory.NewWithdrawUseCase(store, reg, nil, inventory.WithRoster("Karol", "Rita")),
		Search:        search,
		Report:        report.NewUseCase(search, pdf.NewMarotoReportGenerator("test")),
		Notifications: notification.NewUseCase(repos.Notifications),
		JWTSecret:     testJWTSecret,
		AuditRoles:    auditRoles,
	})
	return &testEnv{app: app, store: store, reg: reg, token: tokenForRole(t, "almacen")}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", e.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) seed(t *testing.T, sku string, qty int, expiration string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/stock", map[string]any{
		"sku": sku, "product_name": "Luva " + sku, "brand": "Supermax", "location": "A1",
		"quantity": qty, "expiration_date": expiration,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func withdrawBody(sku string, qty any) map[string]any {
	return map[string]any{
		"sku": sku, "product_name": "Luva " + sku, "brand": "Supermax", "quantity": qty,
		"responsible": "karol", "location": "A1", "withdrawal_date": "2024-03-10",
	}
}

func TestRouter_SinToken_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/stock", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStock_CrearListarYObtener(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "LUV-M", 10, time.Now().AddDate(0, 0, 5).Format(dto.DateLayout))
	env.seed(t, "ALC-70", 3, "")

	list := decode[dto.StockListResponse](t, env.do(t, http.MethodGet, "/api/stock?q=alc", nil))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "ALC-70", list.Items[0].SKU)
	assert.Nil(t, list.Items[0].DaysRemaining, "sin vencimiento no hay días restantes")
	assert.Equal(t, 2, list.Counts["New"], "el conteo por estado ignora el filtro")

	got := decode[dto.StockEntryResponse](t, env.do(t, http.MethodGet, "/api/stock/LUV-M", nil))
	assert.Equal(t, 10, got.Quantity)
	require.NotNil(t, got.DaysRemaining)
	assert.Equal(t, "Critical", got.Risk)

	alerts := decode[dto.StockAlertResponse](t, env.do(t, http.MethodGet, "/api/stock/alerts", nil))
	assert.True(t, alerts.Alert)
	require.Len(t, alerts.Items, 1)
	assert.Equal(t, "LUV-M", alerts.Items[0].SKU)
}

func TestStock_Rechazos(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "LUV-M", 10, "")

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"sku duplicado", http.MethodPost, "/api/stock", map[string]any{"sku": "LUV-M", "product_name": "x", "quantity": 1}, http.StatusConflict, "DUPLICATE"},
		{"sin nombre", http.MethodPost, "/api/stock", map[string]any{"sku": "NEW"}, http.StatusBadRequest, "VALIDATION"},
		{"fecha inválida", http.MethodPost, "/api/stock", map[string]any{"sku": "NEW", "product_name": "x", "expiration_date": "10/03/2024"}, http.StatusBadRequest, "VALIDATION"},
		{"sku desconocido", http.MethodGet, "/api/stock/NOPE", nil, http.StatusNotFound, "NOT_FOUND"},
		{"estado de filtro inválido", http.MethodGet, "/api/stock?status=Roto", nil, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestStock_CambioDeEstadoEHistorial(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "LUV-M", 10, "")

	resp := env.do(t, http.MethodPatch, "/api/stock/LUV-M/status", dto.UpdateStatusRequest{Status: "Open", Reason: " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	updated := decode[dto.StockEntryResponse](t, env.do(t, http.MethodPatch, "/api/stock/LUV-M/status",
		dto.UpdateStatusRequest{Status: "Open", Reason: "caja abierta"}))
	assert.Equal(t, "Open", updated.Status)
	assert.Equal(t, "caja abierta", updated.StatusReason)

	history := decode[[]dto.StatusChangeResponse](t, env.do(t, http.MethodGet, "/api/stock/LUV-M/status-history", nil))
	require.Len(t, history, 1)
	assert.Equal(t, "New", history[0].OldStatus)
	assert.Equal(t, "Open", history[0].NewStatus)
	assert.Equal(t, testUserID, history[0].ChangedBy)
}

func TestStock_CambioDeEstadoRestringidoPorRol(t *testing.T) {
	env := newTestEnv(t, "supervisor")
	env.seed(t, "LUV-M", 10, "")

	resp := env.do(t, http.MethodPatch, "/api/stock/LUV-M/status", dto.UpdateStatusRequest{Status: "Open", Reason: "x"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWithdrawals_FlujoCompleto(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "LUV-M", 10, "")

	rec := decode[dto.WithdrawalResponse](t, env.do(t, http.MethodPost, "/api/withdrawals", withdrawBody("LUV-M", "4")))
	assert.Equal(t, 4, rec.Quantity)
	assert.Equal(t, "Karol", rec.Responsible, "se guarda la grafía del padrón")
	assert.Equal(t, "2024-03-10", rec.WithdrawalDate)
	assert.Equal(t, testUserID, rec.CreatedBy)

	// número JSON también es válido
	resp := env.do(t, http.MethodPost, "/api/withdrawals", withdrawBody("LUV-M", 2))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	entry := decode[dto.StockEntryResponse](t, env.do(t, http.MethodGet, "/api/stock/LUV-M", nil))
	assert.Equal(t, 4, entry.Quantity)

	list := decode[dto.WithdrawalListResponse](t, env.do(t, http.MethodGet,
		"/api/withdrawals?responsible=Karol&from=2024-03-01&to=2024-03-31", nil))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, 2, list.Records[0].Quantity, "más recientes primero")

	notes := decode[[]dto.NotificationResponse](t, env.do(t, http.MethodGet, "/api/notifications?limit=1", nil))
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "Karol")
}

func TestWithdrawals_Rechazos(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "LUV-M", 3, "")

	cases := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"stock insuficiente", withdrawBody("LUV-M", 5), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"cantidad cero", withdrawBody("LUV-M", "0"), http.StatusBadRequest, "VALIDATION"},
		{"cantidad decimal", withdrawBody("LUV-M", 1.5), http.StatusBadRequest, "VALIDATION"},
		{"sku desconocido", withdrawBody("NOPE", 1), http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/withdrawals", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}

	entry := decode[dto.StockEntryResponse](t, env.do(t, http.MethodGet, "/api/stock/LUV-M", nil))
	assert.Equal(t, 3, entry.Quantity, "los rechazos no cambian el stock")
}

func TestWithdrawals_FiltroFechaInvalida(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/withdrawals?from=ayer&to=2024-03-01", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWithdrawals_ReportePDF(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "LUV-M", 10, "")
	resp := env.do(t, http.MethodPost, "/api/withdrawals", withdrawBody("LUV-M", 1))
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/withdrawals/report.pdf?responsible=all", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestWithdrawals_FalloDePersistenciaNoExponeCausa(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "LUV-M", 10, "")
	env.store.FailOn("withdrawals.append", errors.New("disk full"))

	resp := env.do(t, http.MethodPost, "/api/withdrawals", withdrawBody("LUV-M", 1))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "disk full")
}

func TestStream_EntregaSnapshotsEnVivo(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "LUV-M", 10, "")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = env.app.Listener(ln) }()
	t.Cleanup(func() { _ = env.app.ShutdownWithTimeout(time.Second) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+ln.Addr().String()+"/api/stock/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", env.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan dto.SnapshotEvent, 4)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			if data, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
				var ev dto.SnapshotEvent
				if json.Unmarshal([]byte(data), &ev) == nil {
					events <- ev
				}
			}
		}
	}()

	first := <-events
	require.Equal(t, 1, first.Count)
	assert.Equal(t, 10, first.Items[0].Quantity)

	_, err = env.reg.Create(context.Background(), &entity.StockEntry{SKU: "ALC-70", ProductName: "Álcool 70%", Quantity: 2})
	require.NoError(t, err)

	select {
	case next := <-events:
		assert.Greater(t, next.Version, first.Version)
		assert.Equal(t, 2, next.Count)
	case <-ctx.Done():
		t.Fatal("no llegó el snapshot posterior al cambio")
	}
}

package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estoque-api/internal/application/audit"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/expiration"
	"github.com/jhoicas/Estoque-api/internal/application/query"
	"github.com/jhoicas/Estoque-api/internal/application/registry"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// StockHandler maneja el registro de stock y la auditoría de estados (protegido).
type StockHandler struct {
	reg     *registry.Registry
	status  *audit.StatusUseCase
	history *audit.HistoryQuery
	loc     *time.Location
	now     func() time.Time
}

// NewStockHandler construye el handler. loc es la zona de las fechas de vencimiento.
func NewStockHandler(reg *registry.Registry, status *audit.StatusUseCase, history *audit.HistoryQuery, loc *time.Location) *StockHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &StockHandler{reg: reg, status: status, history: history, loc: loc, now: time.Now}
}

// List godoc
// @Summary      Listar stock
// @Description  Filtra por texto (producto, marca o SKU) y estado. Incluye conteo por estado y riesgo de vencimiento.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Texto libre"
// @Param        status  query  string  false  "New | Open | Expired"
// @Success      200  {object}  dto.StockListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	f := query.StockFilter{Text: c.Query("q")}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st, ok := entity.ParseStatus(raw)
		if !ok {
			return badRequest(c, "VALIDATION", "estado inválido: "+raw)
		}
		f.Status = st
	}
	entries, err := h.reg.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	listing := query.StockQuery(entries, f, h.now(), h.loc)

	out := dto.StockListResponse{
		Count:  listing.Count,
		Counts: make(map[string]int, len(listing.Counts)),
		Items:  make([]dto.StockEntryResponse, 0, len(listing.Items)),
	}
	for st, n := range listing.Counts {
		out.Counts[string(st)] = n
	}
	for _, it := range listing.Items {
		out.Items = append(out.Items, toStockResponse(it.Entry, it.DaysRemaining, it.Risk))
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Entradas próximas a vencer
// @Description  Entradas con 7 días o menos hasta el vencimiento, ordenadas por días restantes.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockAlertResponse
// @Router       /api/stock/alerts [get]
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	entries, err := h.reg.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	critical := expiration.Critical(entries, h.now(), h.loc)
	out := dto.StockAlertResponse{
		Alert: len(critical) > 0,
		Count: len(critical),
		Items: make([]dto.StockEntryResponse, 0, len(critical)),
	}
	for _, a := range critical {
		out.Items = append(out.Items, toStockResponse(a.Entry, a.DaysRemaining, a.Risk))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener entrada por SKU
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU o ID"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{sku} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	e, err := h.reg.Get(c.UserContext(), c.Params("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(annotate(e, h.now(), h.loc))
}

// Create godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequest  true  "sku, product_name, quantity, expiration_date (AAAA-MM-DD)"
// @Success      201  {object}  dto.StockEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	entry := &entity.StockEntry{
		SKU:          in.SKU,
		ProductName:  in.ProductName,
		Brand:        strings.TrimSpace(in.Brand),
		Location:     strings.TrimSpace(in.Location),
		Observations: strings.TrimSpace(in.Observations),
		Quantity:     in.Quantity,
		Status:       entity.Status(strings.TrimSpace(in.Status)),
	}
	if raw := strings.TrimSpace(in.ExpirationDate); raw != "" {
		d, err := time.Parse(dto.DateLayout, raw)
		if err != nil {
			return badRequest(c, "VALIDATION", "fecha de vencimiento inválida: "+raw)
		}
		entry.ExpirationDate = &d
	}
	created, err := h.reg.Create(c.UserContext(), entry)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(annotate(created, h.now(), h.loc))
}

// UpdateStatus godoc
// @Summary      Cambiar estado de una entrada
// @Description  Toda transición a un estado regulado exige motivo y queda registrada en el historial.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID o SKU"
// @Param        body  body  dto.UpdateStatusRequest  true  "status, reason"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/status [patch]
func (h *StockHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	e, err := h.status.SetStatus(c.UserContext(), operator(c), c.Params("id"), in.Status, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(annotate(e, h.now(), h.loc))
}

// History godoc
// @Summary      Historial de estados
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU o ID"
// @Success      200  {array}   dto.StatusChangeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{sku}/status-history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	list, err := h.history.History(c.UserContext(), c.Params("sku"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StatusChangeResponse, 0, len(list))
	for _, sc := range list {
		out = append(out, toStatusChangeResponse(sc))
	}
	return c.JSON(out)
}

package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/query"
	"github.com/jhoicas/Estoque-api/internal/application/report"
)

// WithdrawalHandler maneja retiradas, su historial y el reporte PDF (protegido).
type WithdrawalHandler struct {
	withdraw *inventory.WithdrawUseCase
	search   *query.UseCase
	report   *report.UseCase
}

// NewWithdrawalHandler construye el handler.
func NewWithdrawalHandler(withdraw *inventory.WithdrawUseCase, search *query.UseCase, rep *report.UseCase) *WithdrawalHandler {
	return &WithdrawalHandler{withdraw: withdraw, search: search, report: rep}
}

// Create godoc
// @Summary      Registrar retirada
// @Description  Descuenta stock y agrega el registro al historial de forma atómica.
// @Tags         withdrawals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WithdrawRequest  true  "sku, quantity (> 0), responsible, withdrawal_date (AAAA-MM-DD)"
// @Success      201  {object}  dto.WithdrawalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/withdrawals [post]
func (h *WithdrawalHandler) Create(c *fiber.Ctx) error {
	var in dto.WithdrawRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	rec, err := h.withdraw.Withdraw(c.UserContext(), operator(c), inventory.WithdrawRequest{
		SKU:            in.SKU,
		ProductName:    in.ProductName,
		Brand:          in.Brand,
		Quantity:       string(in.Quantity),
		Responsible:    in.Responsible,
		Location:       in.Location,
		WithdrawalDate: in.WithdrawalDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWithdrawalResponse(rec))
}

// List godoc
// @Summary      Historial de retiradas
// @Description  Más recientes primero. El rango de fechas solo se aplica si vienen from y to.
// @Tags         withdrawals
// @Security     Bearer
// @Produce      json
// @Param        q            query  string  false  "Texto sobre producto o SKU"
// @Param        responsible  query  string  false  "Nombre exacto o all"
// @Param        from         query  string  false  "AAAA-MM-DD"
// @Param        to           query  string  false  "AAAA-MM-DD"
// @Success      200  {object}  dto.WithdrawalListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/withdrawals [get]
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	res, err := h.search.Search(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.WithdrawalListResponse{Count: res.Count, Records: make([]dto.WithdrawalResponse, 0, len(res.Records))}
	for _, r := range res.Records {
		out.Records = append(out.Records, toWithdrawalResponse(r))
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de retiradas
// @Description  Mismos filtros que el listado.
// @Tags         withdrawals
// @Security     Bearer
// @Produce      application/pdf
// @Param        q            query  string  false  "Texto sobre producto o SKU"
// @Param        responsible  query  string  false  "Nombre exacto o all"
// @Param        from         query  string  false  "AAAA-MM-DD"
// @Param        to           query  string  false  "AAAA-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/withdrawals/report.pdf [get]
func (h *WithdrawalHandler) Report(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	doc, err := h.report.WithdrawalsPDF(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="retiradas.pdf"`)
	return c.Send(doc)
}

func parseFilter(c *fiber.Ctx) (query.Filter, error) {
	f := query.Filter{
		Text:        c.Query("q"),
		Responsible: strings.TrimSpace(c.Query("responsible")),
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.DateFrom}, {"to", &f.DateTo}} {
		raw := strings.TrimSpace(c.Query(p.name))
		if raw == "" {
			continue
		}
		d, err := time.Parse(dto.DateLayout, raw)
		if err != nil {
			return f, fmt.Errorf("fecha inválida en %s: %s", p.name, raw)
		}
		*p.dst = &d
	}
	return f, nil
}

package inventory

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// ZeroPolicy qué hacer con una entrada cuya cantidad llega a cero.
type ZeroPolicy string

const (
	ZeroKeep   ZeroPolicy = "keep"
	ZeroDelete ZeroPolicy = "delete"
)

// DateLayout formato de la fecha de retirada (fecha de calendario).
const DateLayout = "2006-01-02"

// WithdrawRequest datos crudos de la retirada tal como los ingresa el operador.
type WithdrawRequest struct {
	SKU            string
	ProductName    string
	Brand          string
	Quantity       string
	Responsible    string
	Location       string
	WithdrawalDate string
}

// WithdrawUseCase coordina la retirada: valida, descuenta stock y agrega al ledger en una sola transacción.
type WithdrawUseCase struct {
	tx         TxRunner
	publisher  SnapshotPublisher
	log        *logger.Logger
	metrics    ports.Metrics
	roster     []string
	zeroPolicy ZeroPolicy
	loc        *time.Location
	now        func() time.Time
}

// Option configura el caso de uso.
type Option func(*WithdrawUseCase)

// WithRoster restringe Responsible a los nombres dados. Vacío = sin restricción.
func WithRoster(names ...string) Option {
	return func(uc *WithdrawUseCase) { uc.roster = names }
}

// WithZeroPolicy define si una entrada en cero se conserva o se elimina.
func WithZeroPolicy(p ZeroPolicy) Option {
	return func(uc *WithdrawUseCase) { uc.zeroPolicy = p }
}

// WithMetrics registra resultados en el recolector dado.
func WithMetrics(m ports.Metrics) Option {
	return func(uc *WithdrawUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

// WithLocation zona horaria con la que se interpreta la fecha de retirada.
func WithLocation(loc *time.Location) Option {
	return func(uc *WithdrawUseCase) {
		if loc != nil {
			uc.loc = loc
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *WithdrawUseCase) { uc.now = now }
}

// NewWithdrawUseCase construye el caso de uso.
func NewWithdrawUseCase(tx TxRunner, publisher SnapshotPublisher, log *logger.Logger, opts ...Option) *WithdrawUseCase {
	if log == nil {
		log = logger.Nop()
	}
	uc := &WithdrawUseCase{
		tx:         tx,
		publisher:  publisher,
		log:        log.Component("withdraw"),
		metrics:    ports.NopMetrics{},
		zeroPolicy: ZeroKeep,
		loc:        time.UTC,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type withdrawal struct {
	sku, productName, brand string
	qty                     int
	responsible, location   string
	date                    time.Time
}

// Withdraw registra una retirada. Orden de validación: campos requeridos, cantidad,
// responsable, fecha; dentro de la transacción: SKU existente y stock suficiente.
// Ante cualquier rechazo o fallo no queda ninguna escritura.
func (uc *WithdrawUseCase) Withdraw(ctx context.Context, actor entity.Operator, req WithdrawRequest) (*entity.WithdrawalRecord, error) {
	in, err := uc.validate(req)
	if err != nil {
		uc.observe(err, 0)
		return nil, err
	}

	var record *entity.WithdrawalRecord
	remaining := 0
	err = uc.tx.Run(ctx, func(r repository.TxRepos) error {
		// Bloquea la fila hasta el Commit para evitar retiradas concurrentes sobre el mismo SKU
		entry, err := r.Stock.GetBySKUForUpdate(ctx, in.sku)
		if err != nil {
			return domain.StoreFailure("leer stock", err)
		}
		if entry == nil {
			return domain.NotFound("sku desconocido: %s", in.sku)
		}
		if entry.Quantity-in.qty < 0 {
			return domain.InsufficientStock("stock insuficiente: disponible %d, solicitado %d", entry.Quantity, in.qty)
		}

		remaining, err = r.Stock.DecrementQuantity(ctx, entry.ID, in.qty)
		if err != nil {
			return domain.StoreFailure("descontar stock", err)
		}
		if remaining == 0 && uc.zeroPolicy == ZeroDelete {
			if err := r.Stock.Delete(ctx, entry.ID); err != nil {
				return domain.StoreFailure("eliminar entrada agotada", err)
			}
		}

		now := uc.now()
		record = &entity.WithdrawalRecord{
			ID:             uuid.New().String(),
			SKU:            entry.SKU,
			ProductName:    in.productName,
			Brand:          in.brand,
			Quantity:       in.qty,
			Responsible:    in.responsible,
			Location:       in.location,
			WithdrawalDate: in.date,
			CreatedAt:      now,
			CreatedBy:      actor.ID,
		}
		if err := r.Withdrawals.Append(ctx, record); err != nil {
			return domain.StoreFailure("registrar retirada", err)
		}
		n := &entity.Notification{
			ID:        uuid.New().String(),
			Actor:     in.responsible,
			Item:      in.productName,
			Quantity:  in.qty,
			CreatedAt: now,
		}
		if err := r.Notifications.Append(ctx, n); err != nil {
			return domain.StoreFailure("registrar notificación", err)
		}
		return nil
	})
	if err != nil {
		err = domain.StoreFailure("transacción de retirada", err)
		uc.observe(err, 0)
		uc.logRejection(err, in)
		return nil, err
	}

	uc.observe(nil, in.qty)
	uc.log.Info().
		Str("sku", record.SKU).
		Int("quantity", record.Quantity).
		Int("remaining", remaining).
		Str("responsible", record.Responsible).
		Str("actor", actor.ID).
		Msg("retirada registrada")

	if uc.publisher != nil {
		if err := uc.publisher.Publish(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn().Err(err).Str("sku", record.SKU).Msg("retirada confirmada pero no se pudo difundir el snapshot")
		}
	}
	return record, nil
}

func (uc *WithdrawUseCase) validate(req WithdrawRequest) (withdrawal, error) {
	fields := []struct{ name, value string }{
		{"sku", req.SKU},
		{"product_name", req.ProductName},
		{"brand", req.Brand},
		{"quantity", req.Quantity},
		{"responsible", req.Responsible},
		{"location", req.Location},
		{"withdrawal_date", req.WithdrawalDate},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return withdrawal{}, domain.Validation("campo requerido: %s", f.name)
		}
	}

	qty, ok := ParseQuantity(req.Quantity)
	if !ok {
		return withdrawal{}, domain.Validation("cantidad inválida: %s", strings.TrimSpace(req.Quantity))
	}

	responsible, ok := uc.resolveResponsible(strings.TrimSpace(req.Responsible))
	if !ok {
		return withdrawal{}, domain.Validation("responsable desconocido: %s", strings.TrimSpace(req.Responsible))
	}

	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(req.WithdrawalDate), uc.loc)
	if err != nil {
		return withdrawal{}, domain.Validation("fecha de retirada inválida: %s", strings.TrimSpace(req.WithdrawalDate))
	}

	return withdrawal{
		sku:         strings.TrimSpace(req.SKU),
		productName: strings.TrimSpace(req.ProductName),
		brand:       strings.TrimSpace(req.Brand),
		qty:         qty,
		responsible: responsible,
		location:    strings.TrimSpace(req.Location),
		date:        date,
	}, nil
}

// resolveResponsible devuelve el nombre tal como figura en la nómina.
func (uc *WithdrawUseCase) resolveResponsible(name string) (string, bool) {
	if len(uc.roster) == 0 {
		return name, true
	}
	for _, r := range uc.roster {
		if strings.EqualFold(r, name) {
			return r, true
		}
	}
	return "", false
}

var maxQuantity = decimal.NewFromInt(math.MaxInt32)

// ParseQuantity acepta solo enteros positivos ("5", " 5 ", "5.0"). Rechaza "0", "-2", "1.5", "abc".
func ParseQuantity(raw string) (int, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if !d.IsInteger() || !d.IsPositive() || d.GreaterThan(maxQuantity) {
		return 0, false
	}
	return int(d.IntPart()), true
}

func (uc *WithdrawUseCase) observe(err error, units int) {
	uc.metrics.WithdrawalObserved(Outcome(err), units)
}

func (uc *WithdrawUseCase) logRejection(err error, in withdrawal) {
	if domain.IsBusinessRejection(err) {
		uc.log.Warn().Err(err).Str("sku", in.sku).Int("quantity", in.qty).Msg("retirada rechazada")
		return
	}
	uc.log.Error().Err(err).Str("sku", in.sku).Msg("fallo de persistencia en retirada")
}

// Outcome etiqueta de métricas para el resultado de una mutación.
func Outcome(err error) string {
	switch {
	case err == nil:
		return ports.OutcomeOK
	case errors.Is(err, domain.ErrInvalidInput):
		return ports.OutcomeValidation
	case errors.Is(err, domain.ErrNotFound):
		return ports.OutcomeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return ports.OutcomeInsufficientStock
	default:
		return ports.OutcomeStoreError
	}
}

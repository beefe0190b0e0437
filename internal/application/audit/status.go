// Package audit aplica cambios de estado sobre entradas de stock y guarda su historial.
package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// StatusUseCase cambia el estado de una entrada exigiendo motivo para los estados regulados.
type StatusUseCase struct {
	tx          inventory.TxRunner
	publisher   inventory.SnapshotPublisher
	log         *logger.Logger
	metrics     ports.Metrics
	regulated   map[entity.Status]bool
	unregulated map[entity.Status]bool
	now         func() time.Time
}

// Option configura el caso de uso.
type Option func(*StatusUseCase)

// WithUnregulated acepta estados adicionales que no exigen motivo.
func WithUnregulated(statuses ...entity.Status) Option {
	return func(uc *StatusUseCase) {
		for _, s := range statuses {
			uc.unregulated[s] = true
		}
	}
}

// WithMetrics registra resultados en el recolector dado.
func WithMetrics(m ports.Metrics) Option {
	return func(uc *StatusUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *StatusUseCase) { uc.now = now }
}

// NewStatusUseCase construye el caso de uso. New, Open y Expired son regulados.
func NewStatusUseCase(tx inventory.TxRunner, publisher inventory.SnapshotPublisher, log *logger.Logger, opts ...Option) *StatusUseCase {
	if log == nil {
		log = logger.Nop()
	}
	uc := &StatusUseCase{
		tx:          tx,
		publisher:   publisher,
		log:         log.Component("audit"),
		metrics:     ports.NopMetrics{},
		regulated:   make(map[entity.Status]bool, len(entity.Statuses)),
		unregulated: make(map[entity.Status]bool),
		now:         time.Now,
	}
	for _, s := range entity.Statuses {
		uc.regulated[s] = true
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SetStatus cambia el estado y el motivo en una sola escritura junto con la fila de auditoría.
func (uc *StatusUseCase) SetStatus(ctx context.Context, actor entity.Operator, skuOrID, status, reason string) (*entity.StockEntry, error) {
	target, reason, err := uc.validate(status, reason)
	if err != nil {
		uc.metrics.StatusChangeObserved(status, inventory.Outcome(err))
		return nil, err
	}
	key := strings.TrimSpace(skuOrID)
	if key == "" {
		err := domain.Validation("campo requerido: sku")
		uc.metrics.StatusChangeObserved(string(target), inventory.Outcome(err))
		return nil, err
	}

	var updated *entity.StockEntry
	var previous entity.Status
	err = uc.tx.Run(ctx, func(r repository.TxRepos) error {
		entry, err := r.Stock.GetBySKUForUpdate(ctx, key)
		if err == nil && entry == nil {
			entry, err = r.Stock.GetByIDForUpdate(ctx, key)
		}
		if err != nil {
			return domain.StoreFailure("leer stock", err)
		}
		if entry == nil {
			return domain.NotFound("sku desconocido: %s", key)
		}
		previous = entry.Status

		updated, err = r.Stock.Update(ctx, entry.ID, entity.StockPatch{Status: &target, StatusReason: &reason})
		if err != nil {
			return domain.StoreFailure("actualizar estado", err)
		}
		if updated == nil {
			return domain.NotFound("sku desconocido: %s", key)
		}
		change := &entity.StatusChange{
			ID:        uuid.New().String(),
			StockID:   entry.ID,
			SKU:       entry.SKU,
			OldStatus: previous,
			NewStatus: target,
			Reason:    reason,
			ChangedBy: actor.ID,
			ChangedAt: uc.now(),
		}
		if err := r.StatusChanges.Append(ctx, change); err != nil {
			return domain.StoreFailure("registrar auditoría de estado", err)
		}
		return nil
	})
	uc.metrics.StatusChangeObserved(string(target), inventory.Outcome(err))
	if err != nil {
		err = domain.StoreFailure("transacción de estado", err)
		if domain.IsBusinessRejection(err) {
			uc.log.Warn().Err(err).Str("key", key).Msg("cambio de estado rechazado")
		} else {
			uc.log.Error().Err(err).Str("key", key).Msg("fallo de persistencia en cambio de estado")
		}
		return nil, err
	}

	uc.log.Info().
		Str("sku", updated.SKU).
		Str("from", string(previous)).
		Str("to", string(target)).
		Str("actor", actor.ID).
		Msg("estado actualizado")

	if uc.publisher != nil {
		if err := uc.publisher.Publish(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn().Err(err).Str("sku", updated.SKU).Msg("estado confirmado pero no se pudo difundir el snapshot")
		}
	}
	return updated, nil
}

// validate normaliza el estado y el motivo antes de tocar el store.
func (uc *StatusUseCase) validate(status, reason string) (entity.Status, string, error) {
	reason = strings.TrimSpace(reason)
	raw := strings.TrimSpace(status)
	if raw == "" {
		return "", "", domain.Validation("campo requerido: status")
	}
	if target, ok := entity.ParseStatus(raw); ok && uc.regulated[target] {
		if reason == "" {
			return "", "", domain.Validation("motivo requerido para el estado %s", target)
		}
		return target, reason, nil
	}
	if target := entity.Status(raw); uc.unregulated[target] {
		// los estados no regulados limpian el motivo
		return target, "", nil
	}
	return "", "", domain.Validation("estado inválido: %s", raw)
}

// NewHistory construye la consulta de historial sobre repositorios en modo autocommit.
func NewHistory(stock repository.StockRepository, changes repository.StatusChangeRepository) *HistoryQuery {
	return &HistoryQuery{stock: stock, changes: changes}
}

// HistoryQuery lee el historial de auditoría.
type HistoryQuery struct {
	stock   repository.StockRepository
	changes repository.StatusChangeRepository
}

// History devuelve el historial de la entrada identificada por SKU o ID.
func (q *HistoryQuery) History(ctx context.Context, skuOrID string) ([]*entity.StatusChange, error) {
	key := strings.TrimSpace(skuOrID)
	entry, err := q.stock.GetBySKU(ctx, key)
	if err == nil && entry == nil {
		entry, err = q.stock.GetByID(ctx, key)
	}
	if err != nil {
		return nil, domain.StoreFailure("leer stock", err)
	}
	if entry == nil {
		return nil, domain.NotFound("sku desconocido: %s", key)
	}
	list, err := q.changes.ListByStock(ctx, entry.ID)
	if err != nil {
		return nil, domain.StoreFailure("leer historial de estado", err)
	}
	return list, nil
}

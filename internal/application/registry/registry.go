// Package registry es la fuente de verdad de las entradas de stock: lecturas,
// registro, edición por campos y difusión de snapshots a los suscriptores.
package registry

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// Snapshot conjunto completo de entradas en un instante. Version crece con cada cambio difundido.
type Snapshot struct {
	Entries []*entity.StockEntry
	Version uint64
	TakenAt time.Time
}

// Registry registro de stock con suscripciones push.
type Registry struct {
	repo repository.StockRepository
	log  *logger.Logger
	now  func() time.Time

	// pubMu serializa Publish y Subscribe para que las versiones lleguen en orden.
	pubMu       sync.Mutex
	subs        map[uint64]*Subscription
	nextSubID   uint64
	version     uint64
	last        *Snapshot
	fingerprint uint64
}

// New construye el registro sobre un repositorio de stock en modo autocommit.
func New(repo repository.StockRepository, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		repo: repo,
		log:  log.Component("registry"),
		now:  time.Now,
		subs: make(map[uint64]*Subscription),
	}
}

// Get busca por SKU y, si no existe, por ID.
func (r *Registry) Get(ctx context.Context, skuOrID string) (*entity.StockEntry, error) {
	key := strings.TrimSpace(skuOrID)
	if key == "" {
		return nil, domain.Validation("sku requerido")
	}
	e, err := r.repo.GetBySKU(ctx, key)
	if err != nil {
		return nil, domain.StoreFailure("leer stock", err)
	}
	if e == nil {
		if e, err = r.repo.GetByID(ctx, key); err != nil {
			return nil, domain.StoreFailure("leer stock", err)
		}
	}
	if e == nil {
		return nil, domain.NotFound("sku desconocido: %s", key)
	}
	return e, nil
}

// List devuelve todas las entradas.
func (r *Registry) List(ctx context.Context) ([]*entity.StockEntry, error) {
	list, err := r.repo.List(ctx)
	if err != nil {
		return nil, domain.StoreFailure("listar stock", err)
	}
	return list, nil
}

// Create registra una entrada nueva. Estado por defecto New.
func (r *Registry) Create(ctx context.Context, entry *entity.StockEntry) (*entity.StockEntry, error) {
	entry.SKU = strings.TrimSpace(entry.SKU)
	entry.ProductName = strings.TrimSpace(entry.ProductName)
	switch {
	case entry.SKU == "":
		return nil, domain.Validation("campo requerido: sku")
	case entry.ProductName == "":
		return nil, domain.Validation("campo requerido: product_name")
	case entry.Quantity < 0:
		return nil, domain.Validation("cantidad negativa no permitida")
	}
	if entry.Status == "" {
		entry.Status = entity.StatusNew
	} else if st, ok := entity.ParseStatus(string(entry.Status)); ok {
		entry.Status = st
	} else {
		return nil, domain.Validation("estado inválido: %s", entry.Status)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		return nil, domain.StoreFailure("registrar stock", err)
	}
	r.log.Info().Str("sku", entry.SKU).Int("quantity", entry.Quantity).Msg("entrada de stock registrada")
	r.publishAfterCommit(ctx)
	return entry, nil
}

// Update aplica un patch por campos. Solo se exige quantity >= 0.
func (r *Registry) Update(ctx context.Context, id string, patch entity.StockPatch) (*entity.StockEntry, error) {
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, domain.Validation("cantidad negativa no permitida")
	}
	if patch.Status != nil {
		st, ok := entity.ParseStatus(string(*patch.Status))
		if !ok {
			return nil, domain.Validation("estado inválido: %s", *patch.Status)
		}
		patch.Status = &st
	}
	e, err := r.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, domain.StoreFailure("actualizar stock", err)
	}
	if e == nil {
		return nil, domain.NotFound("entrada de stock no encontrada: %s", id)
	}
	r.publishAfterCommit(ctx)
	return e, nil
}

// publishAfterCommit difunde sin depender de la cancelación del request: la escritura ya se confirmó.
func (r *Registry) publishAfterCommit(ctx context.Context) {
	if err := r.Publish(context.WithoutCancel(ctx)); err != nil {
		r.log.Warn().Err(err).Msg("no se pudo difundir el snapshot")
	}
}

// Publish recarga el conjunto completo y lo entrega a todos los suscriptores.
// Si nada cambió desde el último snapshot difundido no se entrega nada.
func (r *Registry) Publish(ctx context.Context) error {
	r.pubMu.Lock()
	defer r.pubMu.Unlock()
	_, err := r.refreshLocked(ctx)
	return err
}

// refreshLocked se llama con pubMu tomado. Devuelve true si difundió una versión nueva.
func (r *Registry) refreshLocked(ctx context.Context) (bool, error) {
	entries, err := r.repo.List(ctx)
	if err != nil {
		return false, domain.StoreFailure("listar stock", err)
	}
	fp := fingerprint(entries)
	if r.last != nil && fp == r.fingerprint {
		return false, nil
	}
	r.version++
	r.fingerprint = fp
	r.last = &Snapshot{Entries: entries, Version: r.version, TakenAt: r.now()}
	for _, s := range r.subs {
		s.offer(*r.last)
	}
	r.log.Debug().Uint64("version", r.version).Int("entries", len(entries)).Msg("snapshot difundido")
	return true, nil
}

// Subscribe registra fn y le entrega de inmediato el conjunto actual y luego uno por cada cambio confirmado.
// La suscripción termina con Cancel o cuando ctx se cancela.
func (r *Registry) Subscribe(ctx context.Context, fn func(Snapshot)) (*Subscription, error) {
	r.pubMu.Lock()
	defer r.pubMu.Unlock()

	r.nextSubID++
	s := newSubscription(r, r.nextSubID, fn)
	r.subs[s.id] = s

	published, err := r.refreshLocked(ctx)
	if err != nil {
		delete(r.subs, s.id)
		return nil, err
	}
	if !published {
		s.offer(*r.last)
	}
	go s.loop(ctx)
	return s, nil
}

func (r *Registry) unsubscribe(id uint64) {
	r.pubMu.Lock()
	delete(r.subs, id)
	r.pubMu.Unlock()
}

// Subscribers cantidad de suscripciones activas.
func (r *Registry) Subscribers() int {
	r.pubMu.Lock()
	defer r.pubMu.Unlock()
	return len(r.subs)
}

func fingerprint(entries []*entity.StockEntry) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	num := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	for _, e := range entries {
		_, _ = h.Write([]byte(e.ID))
		_, _ = h.Write([]byte(e.SKU))
		_, _ = h.Write([]byte(e.Status))
		_, _ = h.Write([]byte(e.StatusReason))
		num(int64(e.Quantity))
		num(e.UpdatedAt.UnixNano())
		if e.ExpirationDate != nil {
			num(e.ExpirationDate.Unix())
		}
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

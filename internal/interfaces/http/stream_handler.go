package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/registry"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// keepAliveEvery intervalo del comentario SSE que mantiene viva la conexión.
const keepAliveEvery = 15 * time.Second

// StreamHandler difunde los snapshots del registro por Server-Sent Events.
type StreamHandler struct {
	reg *registry.Registry
	log *logger.Logger
	loc *time.Location
	now func() time.Time
}

// NewStreamHandler construye el handler.
func NewStreamHandler(reg *registry.Registry, log *logger.Logger, loc *time.Location) *StreamHandler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StreamHandler{reg: reg, log: log.Component("sse"), loc: loc, now: time.Now}
}

// Stream godoc
// @Summary      Stream de snapshots de stock
// @Description  Evento "snapshot" con el conjunto completo al conectar y tras cada cambio confirmado.
// @Tags         stock
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200  {object}  dto.SnapshotEvent
// @Router       /api/stock/stream [get]
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	user := GetUserID(c)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := make(chan registry.Snapshot)
		sub, err := h.reg.Subscribe(ctx, func(snap registry.Snapshot) {
			select {
			case events <- snap:
			case <-ctx.Done():
			}
		})
		if err != nil {
			h.log.Error().Err(err).Msg("no se pudo suscribir el stream")
			fmt.Fprintf(w, "event: error\ndata: %q\n\n", "registro no disponible")
			_ = w.Flush()
			return
		}
		defer sub.Cancel()
		h.log.Debug().Str("user_id", user).Msg("stream abierto")

		ping := time.NewTicker(keepAliveEvery)
		defer ping.Stop()
		for {
			select {
			case snap := <-events:
				if err := h.writeSnapshot(w, snap); err != nil {
					h.log.Debug().Err(err).Str("user_id", user).Msg("stream cerrado por el cliente")
					return
				}
			case <-ping.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}

func (h *StreamHandler) writeSnapshot(w *bufio.Writer, snap registry.Snapshot) error {
	now := h.now()
	ev := dto.SnapshotEvent{
		Version: snap.Version,
		TakenAt: snap.TakenAt,
		Count:   len(snap.Entries),
		Items:   make([]dto.StockEntryResponse, 0, len(snap.Entries)),
	}
	for _, e := range snap.Entries {
		ev.Items = append(ev.Items, annotate(e, now, h.loc))
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Version, data); err != nil {
		return err
	}
	return w.Flush()
}

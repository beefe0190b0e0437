package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// StockChangedChannel canal NOTIFY que dispara el trigger de stock_entries.
const StockChangedChannel = "stock_changed"

// ChangeListener escucha NOTIFY de otras instancias y vuelve a difundir el snapshot.
type ChangeListener struct {
	pool      *pgxpool.Pool
	publisher inventory.SnapshotPublisher
	log       *logger.Logger
	backoff   time.Duration
}

// NewChangeListener construye el listener.
func NewChangeListener(pool *pgxpool.Pool, publisher inventory.SnapshotPublisher, log *logger.Logger) *ChangeListener {
	if log == nil {
		log = logger.Nop()
	}
	return &ChangeListener{pool: pool, publisher: publisher, log: log.Component("pg-listener"), backoff: 2 * time.Second}
}

// Run bloquea hasta que ctx se cancele; reconecta ante errores.
func (l *ChangeListener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.log.Warn().Err(err).Dur("retry_in", l.backoff).Msg("listener de stock desconectado")
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.backoff):
		}
	}
}

func (l *ChangeListener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+StockChangedChannel); err != nil {
		return err
	}
	l.log.Info().Str("channel", StockChangedChannel).Msg("escuchando cambios de stock")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if err := l.publisher.Publish(ctx); err != nil {
			l.log.Warn().Err(err).Str("sku", n.Payload).Msg("no se pudo difundir el snapshot")
		}
	}
}

package registry

import (
	"context"
	"sync"
)

// Subscription entrega snapshots a un callback desde su propia goroutine.
// El buzón tiene un solo lugar: si el consumidor es lento, gana el snapshot más nuevo.
type Subscription struct {
	id      uint64
	reg     *Registry
	fn      func(Snapshot)
	mailbox chan Snapshot
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newSubscription(reg *Registry, id uint64, fn func(Snapshot)) *Subscription {
	return &Subscription{
		id:      id,
		reg:     reg,
		fn:      fn,
		mailbox: make(chan Snapshot, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// offer se llama con pubMu tomado (único productor).
func (s *Subscription) offer(snap Snapshot) {
	for {
		select {
		case <-s.done:
			return
		case s.mailbox <- snap:
			return
		default:
			// descartar el snapshot pendiente, ya quedó viejo
			select {
			case <-s.mailbox:
			default:
			}
		}
	}
}

func (s *Subscription) loop(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			s.Cancel()
			return
		case snap := <-s.mailbox:
			select {
			case <-s.done:
				return
			default:
			}
			s.fn(snap)
		}
	}
}

// Cancel detiene la entrega. Es idempotente y no bloquea, así que puede llamarse desde el propio callback;
// como mucho termina el callback que ya estaba en curso. Stopped indica cuándo salió la goroutine.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		close(s.done)
		s.reg.unsubscribe(s.id)
	})
}

// Stopped se cierra cuando la goroutine de entrega terminó.
func (s *Subscription) Stopped() <-chan struct{} {
	return s.stopped
}

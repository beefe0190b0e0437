// Package memory implementa los puertos de persistencia en memoria para tests
// y entornos efímeros (STORE_DRIVER=memory).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

type state struct {
	stock         map[string]entity.StockEntry // por ID
	withdrawals   []entity.WithdrawalRecord    // orden de inserción
	changes       []entity.StatusChange
	notifications []entity.Notification
}

func newState() *state {
	return &state{stock: make(map[string]entity.StockEntry)}
}

func (s *state) clone() *state {
	c := &state{
		stock:         make(map[string]entity.StockEntry, len(s.stock)),
		withdrawals:   append([]entity.WithdrawalRecord(nil), s.withdrawals...),
		changes:       append([]entity.StatusChange(nil), s.changes...),
		notifications: append([]entity.Notification(nil), s.notifications...),
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	return c
}

// Store almacén en memoria. Las transacciones se serializan con un mutex y
// trabajan sobre una copia que solo se publica si fn termina sin error.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{st: newState(), faults: make(map[string]error)}
}

// FailOn hace que la operación op ("stock.decrement", "withdrawals.append", ...) falle con err.
// err nil elimina el fallo inyectado.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// fault se consulta con s.mu tomado.
func (s *Store) fault(op string) error {
	return s.faults[op]
}

// Run ejecuta fn con repositorios atados a una copia del estado; Commit si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.st.clone()
	if err := fn(s.repos(staged)); err != nil {
		return err
	}
	s.st = staged
	return nil
}

func (s *Store) repos(st *state) repository.TxRepos {
	return repository.TxRepos{
		Stock:         &StockRepo{s: s, st: st},
		Withdrawals:   &WithdrawalRepo{s: s, st: st},
		StatusChanges: &StatusChangeRepo{s: s, st: st},
		Notifications: &NotificationRepo{s: s, st: st},
	}
}

// Repos devuelve repositorios en modo autocommit (cada operación es atómica por sí sola).
func (s *Store) Repos() repository.TxRepos {
	return s.repos(nil)
}

// with ejecuta fn sobre el estado de la transacción o, en autocommit, sobre el estado vivo con el lock tomado.
func (s *Store) with(st *state, op string, fn func(st *state) error) error {
	if st != nil {
		if err := s.fault(op); err != nil {
			return err
		}
		return fn(st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(op); err != nil {
		return err
	}
	return fn(s.st)
}

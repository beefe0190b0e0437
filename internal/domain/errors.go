package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Son los "kinds" de la taxonomía:
// los casos de uso devuelven *Error con el mensaje concreto y uno de estos como Kind.
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = fmt.Errorf("%w: stock insuficiente", ErrConflict)
	ErrDuplicate         = fmt.Errorf("%w: recurso duplicado", ErrConflict)
	ErrStore             = errors.New("fallo de persistencia")
)

// Error rechazo con mensaje específico para el operador.
// errors.Is(err, domain.ErrInvalidInput) funciona a través de Unwrap.
type Error struct {
	Kind    error
	Message string
	Err     error // causa subyacente (solo en fallos de persistencia)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap expone el kind y la causa para errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Validation rechazo por precondición de entrada (campo faltante, cantidad, motivo).
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound el recurso referenciado no existe.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock la retirada dejaría la cantidad negativa.
func InsufficientStock(format string, args ...any) error {
	return &Error{Kind: ErrInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// Duplicate clave de negocio repetida (SKU).
func Duplicate(format string, args ...any) error {
	return &Error{Kind: ErrDuplicate, Message: fmt.Sprintf(format, args...)}
}

// StoreFailure clasifica un error de repositorio como fallo de persistencia.
// Si err ya es un rechazo de dominio se devuelve intacto.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: ErrStore, Message: op, Err: err}
}

// IsBusinessRejection indica si el error es un rechazo de negocio (reintentable corrigiendo la entrada).
func IsBusinessRejection(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict)
}

package entity

import "time"

// WithdrawalRecord hecho histórico e inmutable de una retirada.
// Referencia la entrada por SKU al momento de la retirada; no cambia si la entrada cambia o se elimina.
type WithdrawalRecord struct {
	ID             string
	SKU            string
	ProductName    string
	Brand          string
	Quantity       int // siempre > 0
	Responsible    string
	Location       string
	WithdrawalDate time.Time // fecha de calendario
	CreatedAt      time.Time
	CreatedBy      string // operador autenticado que registró la retirada
}

package entity

import "time"

// StatusChange fila de auditoría de una transición de estado.
type StatusChange struct {
	ID        string
	StockID   string
	SKU       string
	OldStatus Status
	NewStatus Status
	Reason    string
	ChangedBy string
	ChangedAt time.Time
}

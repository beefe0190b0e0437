package entity

import (
	"fmt"
	"time"
)

// Notification evento legible de retirada para el panel de notificaciones.
type Notification struct {
	ID        string
	Actor     string // responsable de la retirada
	Item      string // nombre del producto
	Quantity  int
	CreatedAt time.Time
}

// Message texto legible del evento.
func (n Notification) Message() string {
	return fmt.Sprintf("%s retiró %d un. de %s", n.Actor, n.Quantity, n.Item)
}

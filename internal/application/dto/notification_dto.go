package dto

import "time"

// NotificationResponse evento del feed de notificaciones.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

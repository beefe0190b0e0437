package dto

import "time"

// CreateStockRequest body para POST /api/stock.
type CreateStockRequest struct {
	SKU            string `json:"sku"`
	ProductName    string `json:"product_name"`
	Brand          string `json:"brand"`
	Location       string `json:"location"`
	Observations   string `json:"observations,omitempty"`
	Quantity       int    `json:"quantity"`
	ExpirationDate string `json:"expiration_date,omitempty"` // AAAA-MM-DD
	Status         string `json:"status,omitempty"`
}

// UpdateStatusRequest body para PATCH /api/stock/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// StockEntryResponse entrada de stock con su riesgo de vencimiento.
type StockEntryResponse struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	ProductName    string    `json:"product_name"`
	Brand          string    `json:"brand"`
	Location       string    `json:"location"`
	Observations   string    `json:"observations,omitempty"`
	Quantity       int       `json:"quantity"`
	ExpirationDate *string   `json:"expiration_date"`
	Status         string    `json:"status"`
	StatusReason   string    `json:"status_reason,omitempty"`
	DaysRemaining  *int      `json:"days_remaining"` // null = no vence
	Risk           string    `json:"risk,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StockListResponse respuesta de GET /api/stock.
type StockListResponse struct {
	Count  int                  `json:"count"`
	Counts map[string]int       `json:"counts"`
	Items  []StockEntryResponse `json:"items"`
}

// StockAlertResponse respuesta de GET /api/stock/alerts.
type StockAlertResponse struct {
	Alert bool                 `json:"alert"`
	Count int                  `json:"count"`
	Items []StockEntryResponse `json:"items"`
}

// StatusChangeResponse fila del historial de estados.
type StatusChangeResponse struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Reason    string    `json:"reason"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// SnapshotEvent payload del stream SSE: snapshot completo del registro.
type SnapshotEvent struct {
	Version uint64               `json:"version"`
	TakenAt time.Time            `json:"taken_at"`
	Count   int                  `json:"count"`
	Items   []StockEntryResponse `json:"items"`
}

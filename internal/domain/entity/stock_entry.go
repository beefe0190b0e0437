package entity

import "time"

// Status estado operativo de una entrada de stock.
type Status string

// Estados válidos. Los tres son regulados: toda transición exige un motivo.
const (
	StatusNew     Status = "New"
	StatusOpen    Status = "Open"
	StatusExpired Status = "Expired"
)

// Statuses enumeración cerrada en orden de presentación.
var Statuses = []Status{StatusNew, StatusOpen, StatusExpired}

// ParseStatus normaliza un estado recibido del exterior.
// Acepta también las etiquetas históricas en portugués (Novo, Aberto, Vencido).
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "New", "new", "Novo":
		return StatusNew, true
	case "Open", "open", "Aberto":
		return StatusOpen, true
	case "Expired", "expired", "Vencido":
		return StatusExpired, true
	}
	return Status(s), false
}

// StockEntry representa una línea de producto con cantidad disponible.
// SKU es la clave de negocio canónica (única); ID es la clave técnica asignada por el store.
type StockEntry struct {
	ID             string
	SKU            string
	ProductName    string
	Brand          string
	Location       string
	Observations   string
	Quantity       int        // nunca negativa
	ExpirationDate *time.Time // fecha de calendario; nil = no vence
	Status         Status
	StatusReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExpiresAt devuelve el vencimiento como instante a las 00:00 en loc.
func (e *StockEntry) ExpiresAt(loc *time.Location) *time.Time {
	if e.ExpirationDate == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	d := e.ExpirationDate
	t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return &t
}

// StockPatch actualización parcial por campos; nil = sin cambio.
type StockPatch struct {
	ProductName     *string
	Brand           *string
	Location        *string
	Observations    *string
	Quantity        *int
	ExpirationDate  *time.Time
	ClearExpiration bool
	Status          *Status
	StatusReason    *string
}

// Apply aplica el patch sobre una copia de la entrada.
func (p StockPatch) Apply(e StockEntry) StockEntry {
	if p.ProductName != nil {
		e.ProductName = *p.ProductName
	}
	if p.Brand != nil {
		e.Brand = *p.Brand
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Observations != nil {
		e.Observations = *p.Observations
	}
	if p.Quantity != nil {
		e.Quantity = *p.Quantity
	}
	if p.ClearExpiration {
		e.ExpirationDate = nil
	} else if p.ExpirationDate != nil {
		d := *p.ExpirationDate
		e.ExpirationDate = &d
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.StatusReason != nil {
		e.StatusReason = *p.StatusReason
	}
	return e
}

// IsEmpty indica si el patch no cambia nada.
func (p StockPatch) IsEmpty() bool {
	return p.ProductName == nil && p.Brand == nil && p.Location == nil && p.Observations == nil &&
		p.Quantity == nil && p.ExpirationDate == nil && !p.ClearExpiration &&
		p.Status == nil && p.StatusReason == nil
}

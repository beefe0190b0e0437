package http

import (
	"time"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	domexp "github.com/jhoicas/Estoque-api/internal/domain/expiration"
)

func toStockResponse(e *entity.StockEntry, days int, risk domexp.Risk) dto.StockEntryResponse {
	out := dto.StockEntryResponse{
		ID:           e.ID,
		SKU:          e.SKU,
		ProductName:  e.ProductName,
		Brand:        e.Brand,
		Location:     e.Location,
		Observations: e.Observations,
		Quantity:     e.Quantity,
		Status:       string(e.Status),
		StatusReason: e.StatusReason,
		Risk:         string(risk),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.ExpirationDate != nil {
		d := e.ExpirationDate.Format(dto.DateLayout)
		out.ExpirationDate = &d
	}
	if days != domexp.Never {
		out.DaysRemaining = &days
	}
	return out
}

// annotate calcula días restantes y riesgo para una entrada suelta.
func annotate(e *entity.StockEntry, now time.Time, loc *time.Location) dto.StockEntryResponse {
	days := domexp.DaysRemaining(e.ExpiresAt(loc), now)
	return toStockResponse(e, days, domexp.Classify(days))
}

func toWithdrawalResponse(r *entity.WithdrawalRecord) dto.WithdrawalResponse {
	return dto.WithdrawalResponse{
		ID:             r.ID,
		SKU:            r.SKU,
		ProductName:    r.ProductName,
		Brand:          r.Brand,
		Quantity:       r.Quantity,
		Responsible:    r.Responsible,
		Location:       r.Location,
		WithdrawalDate: r.WithdrawalDate.Format(dto.DateLayout),
		CreatedAt:      r.CreatedAt,
		CreatedBy:      r.CreatedBy,
	}
}

func toStatusChangeResponse(sc *entity.StatusChange) dto.StatusChangeResponse {
	return dto.StatusChangeResponse{
		ID:        sc.ID,
		SKU:       sc.SKU,
		OldStatus: string(sc.OldStatus),
		NewStatus: string(sc.NewStatus),
		Reason:    sc.Reason,
		ChangedBy: sc.ChangedBy,
		ChangedAt: sc.ChangedAt,
	}
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Actor:     n.Actor,
		Item:      n.Item,
		Quantity:  n.Quantity,
		Message:   n.Message(),
		CreatedAt: n.CreatedAt,
	}
}

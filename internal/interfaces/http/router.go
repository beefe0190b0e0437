package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estoque-api/internal/application/audit"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/notification"
	"github.com/jhoicas/Estoque-api/internal/application/query"
	"github.com/jhoicas/Estoque-api/internal/application/registry"
	"github.com/jhoicas/Estoque-api/internal/application/report"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry      *registry.Registry
	Status        *audit.StatusUseCase
	History       *audit.HistoryQuery
	Withdraw      *inventory.WithdrawUseCase
	Search        *query.UseCase
	Report        *report.UseCase
	Notifications *notification.UseCase
	Log           *logger.Logger
	Location      *time.Location
	JWTSecret     string
	// AuditRoles si no está vacío, solo estos roles pueden cambiar estados.
	AuditRoles    []string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Stock: las rutas fijas van antes de /:sku
	stockHandler := NewStockHandler(deps.Registry, deps.Status, deps.History, deps.Location)
	streamHandler := NewStreamHandler(deps.Registry, deps.Log, deps.Location)
	stock := api.Group("/stock")
	stock.Get("/", stockHandler.List)
	stock.Post("/", stockHandler.Create)
	stock.Get("/alerts", stockHandler.Alerts)
	stock.Get("/stream", streamHandler.Stream)
	stock.Get("/:sku", stockHandler.Get)
	stock.Get("/:sku/status-history", stockHandler.History)
	if len(deps.AuditRoles) > 0 {
		stock.Patch("/:id/status", RequireRole(deps.AuditRoles...), stockHandler.UpdateStatus)
	} else {
		stock.Patch("/:id/status", stockHandler.UpdateStatus)
	}

	// Retiradas
	withdrawalHandler := NewWithdrawalHandler(deps.Withdraw, deps.Search, deps.Report)
	withdrawals := api.Group("/withdrawals")
	withdrawals.Post("/", withdrawalHandler.Create)
	withdrawals.Get("/", withdrawalHandler.List)
	withdrawals.Get("/report.pdf", withdrawalHandler.Report)

	// Notificaciones
	notificationHandler := NewNotificationHandler(deps.Notifications)
	api.Get("/notifications", notificationHandler.List)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/purchasing"
	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/pkg/validation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Generate  *stock.GenerateUseCase
	Reconcile *stock.ReconcileUseCase
	Sync      *stock.SyncUseCase
	Gate      *stock.GateUseCase
	Settings  *stock.SettingsUseCase
	RequestUC *purchasing.RequestUseCase
	RecordUC  *purchasing.RecordUseCase
	Validator *validation.Validator
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; la empresa sale del token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	adminOnly := RequireRole(RoleAdmin)
	warehouse := RequireRole(RoleAdmin, RoleBodeguero)

	// Ledger de stock
	stockHandler := NewStockHandler(deps.Generate, deps.Reconcile, deps.Sync, deps.Gate, deps.Settings, deps.Validator)
	details := protected.Group("/stock-details")
	details.Get("/", stockHandler.List)
	details.Post("/generate", warehouse, stockHandler.Generate)
	details.Post("/sync", adminOnly, stockHandler.Sync)
	details.Post("/sync-request-status", adminOnly, stockHandler.SyncRequestStatus)
	details.Get("/:id", stockHandler.GetByID)
	details.Put("/:id/settings", adminOnly, stockHandler.UpdateSettings)
	details.Delete("/:id", adminOnly, stockHandler.Delete)

	// Puerta de consumo
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/validate", stockHandler.Validate)
	stockGroup.Post("/consume", stockHandler.Consume)

	// Compras
	purchasingHandler := NewPurchasingHandler(deps.RequestUC, deps.RecordUC)
	requests := protected.Group("/purchase-requests")
	requests.Post("/", purchasingHandler.CreateRequest)
	requests.Get("/", purchasingHandler.ListRequests)
	requests.Get("/:id", purchasingHandler.GetRequest)
	requests.Put("/:id/quantity", purchasingHandler.UpdateQuantity)
	requests.Post("/:id/approve", adminOnly, purchasingHandler.Approve)
	requests.Post("/:id/reject", adminOnly, purchasingHandler.Reject)
	protected.Post("/purchase-orders", adminOnly, purchasingHandler.CreatePurchaseOrder)

	records := protected.Group("/purchase-records")
	records.Post("/", warehouse, purchasingHandler.RecordPurchase)
	records.Get("/", purchasingHandler.ListRecords)
}

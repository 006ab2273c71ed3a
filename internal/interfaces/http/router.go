package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/manufactura-api/internal/application/alerts"
	"github.com/tu-usuario/manufactura-api/internal/application/audit"
	"github.com/tu-usuario/manufactura-api/internal/application/formula"
	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
	"github.com/tu-usuario/manufactura-api/internal/application/manufacturing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC        *ledger.UseCase
	ManufacturingUC *manufacturing.UseCase
	FormulaUC       *formula.UseCase
	AuditUC         *audit.UseCase
	AlertEvaluator  *alerts.Evaluator
	JWTSecret       string
}

// Router registra las rutas de la API. Todo va detrás del Bearer Token; la
// reversión de auditoría además exige rol privilegiado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Libro de movimientos
	ledgerGroup := api.Group("/ledger")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	ledgerGroup.Post("/entries", movementHandler.Create)
	ledgerGroup.Get("/entries/:id", movementHandler.GetByID)
	ledgerGroup.Put("/entries/:id", movementHandler.Update)
	ledgerGroup.Delete("/entries/:id", movementHandler.Delete)
	ledgerGroup.Get("/products/:productID/entries", movementHandler.ListByProduct)
	ledgerGroup.Get("/products/:productID/balance", movementHandler.Balance)
	ledgerGroup.Get("/balances", movementHandler.Balances)

	// Producción
	mfg := api.Group("/manufacturing")
	productionHandler := NewProductionHandler(deps.ManufacturingUC, deps.LedgerUC)
	mfg.Post("/productions", productionHandler.Register)
	mfg.Get("/productions/:referenceID", productionHandler.GetByReference)

	// Fórmulas
	formulas := api.Group("/formulas")
	formulaHandler := NewFormulaHandler(deps.FormulaUC)
	formulas.Post("/:productID/components", formulaHandler.AddComponent)
	formulas.Get("/:productID/components", formulaHandler.Components)
	formulas.Get("/:productID/used-in", formulaHandler.UsedIn)
	formulas.Delete("/:productID/components/:componentID", formulaHandler.RemoveComponent)
	formulas.Delete("/:productID", formulaHandler.RemoveAll)

	// Auditoría
	auditGroup := api.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.List)
	auditGroup.Get("/entries/:entryID", auditHandler.ListByEntry)
	auditGroup.Get("/:id", auditHandler.GetByID)
	auditGroup.Patch("/:id/flag", auditHandler.Flag)
	auditGroup.Delete("/:id", RequireRole("admin", "supervisor"), auditHandler.DeleteAndRevert)

	// Alertas
	alertGroup := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertEvaluator)
	alertGroup.Get("/", alertHandler.ListOpen)
	alertGroup.Get("/notifications", alertHandler.ListUnread)
	alertGroup.Patch("/notifications/:id/read", alertHandler.MarkRead)
	alertGroup.Post("/evaluate", RequireRole("admin", "supervisor"), alertHandler.EvaluateAll)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/manufactura-api/internal/application/alerts"
)

// AlertHandler maneja las peticiones HTTP de alertas y notificaciones.
type AlertHandler struct {
	evaluator *alerts.Evaluator
}

// NewAlertHandler construye el handler.
func NewAlertHandler(evaluator *alerts.Evaluator) *AlertHandler {
	return &AlertHandler{evaluator: evaluator}
}

// ListOpen lista las alertas abiertas (GET /api/alerts).
func (h *AlertHandler) ListOpen(c *fiber.Ctx) error {
	list, err := h.evaluator.ListOpen(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "alerts": list})
}

// ListUnread lista las notificaciones sin leer (GET /api/alerts/notifications).
func (h *AlertHandler) ListUnread(c *fiber.Ctx) error {
	list, err := h.evaluator.ListUnread(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "notifications": list})
}

// MarkRead marca una notificación como leída
// (PATCH /api/alerts/notifications/:id/read).
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.evaluator.MarkRead(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "notificación leída"})
}

// EvaluateAll fuerza una evaluación completa (POST /api/alerts/evaluate).
// Útil tras cargas masivas o cambios de umbral en el catálogo.
func (h *AlertHandler) EvaluateAll(c *fiber.Ctx) error {
	if err := h.evaluator.EvaluateAll(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "evaluación completada"})
}

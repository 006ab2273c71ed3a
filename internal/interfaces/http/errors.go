package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/manufactura-api/internal/application/dto"
	"github.com/tu-usuario/manufactura-api/internal/domain"
)

// respondError traduce los errores de dominio a códigos HTTP estables.
// Cualquier error no clasificado es una falla de almacenamiento u otra
// condición interna: 500 con el detalle.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrSelfReference):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SELF_REFERENCE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrRevertFailed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REVERT_FAILED", Message: err.Error()})
	case errors.Is(err, domain.ErrNegativeInventory):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NEGATIVE_INVENTORY", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_COMPONENT", Message: err.Error()})
	case errors.Is(err, domain.ErrCircularDependency):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CIRCULAR_DEPENDENCY", Message: err.Error()})
	case errors.Is(err, domain.ErrComponentExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "COMPONENT_EXISTS", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

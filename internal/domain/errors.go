package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrNegativeInventory  = errors.New("el inventario no puede quedar negativo")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrSelfReference      = errors.New("un producto no puede ser componente de sí mismo")
	ErrCircularDependency = errors.New("la fórmula crearía una dependencia circular")
	ErrComponentExists    = errors.New("el componente ya hace parte de la fórmula")
	ErrRevertFailed       = errors.New("no se pudo revertir la operación")
)

// NegativeInventoryError detalla qué producto/ubicación quedaría en negativo.
// Envuelve ErrNegativeInventory para que errors.Is siga funcionando.
type NegativeInventoryError struct {
	ProductID  string
	LocationID string
	Balance    decimal.Decimal // saldo actual (sin la fila en cuestión)
	Resulting  decimal.Decimal // saldo que resultaría de aplicar la operación
}

func (e *NegativeInventoryError) Error() string {
	return fmt.Sprintf("inventario negativo para producto %s en ubicación %s: saldo %s, resultado %s",
		e.ProductID, e.LocationID, e.Balance.String(), e.Resulting.String())
}

func (e *NegativeInventoryError) Unwrap() error { return ErrNegativeInventory }

// InsufficientComponentError identifica el primer componente corto en una
// producción y por cuánto no alcanza.
type InsufficientComponentError struct {
	ComponentID string
	Required    decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientComponentError) Error() string {
	short := e.Required.Sub(e.Available)
	return fmt.Sprintf("componente %s insuficiente: requiere %s, disponible %s (faltan %s)",
		e.ComponentID, e.Required.String(), e.Available.String(), short.String())
}

func (e *InsufficientComponentError) Unwrap() error { return ErrInsufficientStock }

// Short devuelve la cantidad faltante.
func (e *InsufficientComponentError) Short() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

// RevertError envuelve la causa por la cual una reversión de auditoría no
// pudo aplicarse (validación de saldo, snapshot corrupto, fila inexistente).
type RevertError struct {
	LogID string
	Err   error
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("revertir registro de auditoría %s: %v", e.LogID, e.Err)
}

// Unwrap expone tanto ErrRevertFailed como la causa original.
func (e *RevertError) Unwrap() []error { return []error{ErrRevertFailed, e.Err} }

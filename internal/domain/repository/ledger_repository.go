package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
)

// ProductBalance es el saldo derivado de un producto (opcionalmente por ubicación).
type ProductBalance struct {
	ProductID  string
	LocationID string // vacío cuando el saldo es global
	Quantity   decimal.Decimal
}

// LedgerRepository define el puerto de persistencia del libro de movimientos.
// El saldo nunca se materializa: Balance lo deriva sumando las filas.
type LedgerRepository interface {
	Create(entry *entity.LedgerEntry) error
	GetByID(id string) (*entity.LedgerEntry, error)
	Update(entry *entity.LedgerEntry) error
	Delete(id string) error

	// Balance suma SignedQuantity para producto+ubicación (locationID vacío = global).
	Balance(productID, locationID string) (decimal.Decimal, error)
	// BalanceForUpdate igual que Balance, pero bloqueando el agregado
	// (producto, ubicación) hasta el commit de la transacción en curso.
	BalanceForUpdate(productID, locationID string) (decimal.Decimal, error)
	// Balances lista los saldos por producto (locationID vacío = global).
	Balances(locationID string) ([]ProductBalance, error)

	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	// ListByReference devuelve las filas correlacionadas de un evento
	// (una producción: fila padre + descuentos de componentes).
	ListByReference(referenceID string) ([]*entity.LedgerEntry, error)
}

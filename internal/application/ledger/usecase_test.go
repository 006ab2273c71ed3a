package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
	"github.com/tu-usuario/manufactura-api/internal/domain"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/infrastructure/memory"
)

const (
	productID  = "prod-caramelo"
	locationID = "loc-bodega"
	userID     = "user-1"
)

// captureNotifier implementación síncrona del hook post-commit para tests.
type captureNotifier struct {
	ids []string
}

func (n *captureNotifier) NotifyStockChange(productIDs ...string) {
	n.ids = append(n.ids, productIDs...)
}

type fixture struct {
	store    *memory.Store
	uc       *ledger.UseCase
	notifier *captureNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedProduct(entity.Product{ID: productID, SKU: "CAR-01", Name: "Caramelo", Category: entity.CategoryFinished, Unit: "und"})
	store.SeedLocation(entity.Location{ID: locationID, Name: "Bodega principal", IsActive: true})

	notifier := &captureNotifier{}
	uc := ledger.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewLedgerRepository(store),
		memory.NewProductRepository(store),
		memory.NewLocationRepository(store),
		notifier,
	)
	return &fixture{store: store, uc: uc, notifier: notifier}
}

func (f *fixture) create(t *testing.T, entryType, qty string) *entity.LedgerEntry {
	t.Helper()
	entry, err := f.uc.Create(context.Background(), ledger.CreateEntryInput{
		ProductID:  productID,
		LocationID: locationID,
		UserID:     userID,
		EntryType:  entryType,
		Quantity:   decimal.RequireFromString(qty),
	})
	require.NoError(t, err)
	return entry
}

func (f *fixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	b, err := f.uc.Balance(context.Background(), productID, locationID)
	require.NoError(t, err)
	return b
}

func (f *fixture) auditsFor(t *testing.T, entryID string) []*entity.AuditLogEntry {
	t.Helper()
	logs, err := memory.NewAuditRepository(f.store).ListByEntry(entryID)
	require.NoError(t, err)
	return logs
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EntradaManual(t *testing.T) {
	f := newFixture(t)

	entry := f.create(t, entity.EntryTypeManualIn, "5")

	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(5)))
	assert.Equal(t, []string{productID}, f.notifier.ids, "debe notificar al evaluador de alertas post-commit")

	logs := f.auditsFor(t, entry.ID)
	require.Len(t, logs, 1, "el create debe espejarse en auditoría")
	assert.Equal(t, entity.AuditActionCreate, logs[0].Action)
	assert.NotEmpty(t, logs[0].NewData)
	assert.Empty(t, logs[0].OldData, "create no lleva old_data")
}

// Escenario de referencia: 5 entran, 5 salen, la sexta unidad no existe.
func TestCreate_RechazaSaldoNegativo(t *testing.T) {
	f := newFixture(t)
	f.create(t, entity.EntryTypeManualIn, "5")
	f.create(t, entity.EntryTypeManualOut, "5")

	_, err := f.uc.Create(context.Background(), ledger.CreateEntryInput{
		ProductID:  productID,
		LocationID: locationID,
		UserID:     userID,
		EntryType:  entity.EntryTypeManualOut,
		Quantity:   decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNegativeInventory)

	var negErr *domain.NegativeInventoryError
	require.ErrorAs(t, err, &negErr)
	assert.Equal(t, productID, negErr.ProductID)
	assert.True(t, negErr.Resulting.Equal(decimal.NewFromInt(-1)))

	assert.True(t, f.balance(t).IsZero(), "el saldo debe seguir en cero")
	entries, err := f.uc.ListByProduct(context.Background(), productID, nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "la operación rechazada no debe dejar fila")
}

func TestCreate_SalidaManualSeGuardaPositiva(t *testing.T) {
	f := newFixture(t)
	f.create(t, entity.EntryTypeManualIn, "10")
	out := f.create(t, entity.EntryTypeManualOut, "4")

	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(4)), "manual_out se almacena positiva")
	assert.True(t, out.SignedQuantity().Equal(decimal.NewFromInt(-4)))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(6)))
}

func TestCreate_ValidacionDeEntrada(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   ledger.CreateEntryInput
		want error
	}{
		{
			"sin producto",
			ledger.CreateEntryInput{LocationID: locationID, UserID: userID, EntryType: entity.EntryTypeManualIn, Quantity: decimal.NewFromInt(1)},
			domain.ErrInvalidInput,
		},
		{
			"tipo desconocido",
			ledger.CreateEntryInput{ProductID: productID, LocationID: locationID, UserID: userID, EntryType: "transfer", Quantity: decimal.NewFromInt(1)},
			domain.ErrInvalidInput,
		},
		{
			"cantidad cero",
			ledger.CreateEntryInput{ProductID: productID, LocationID: locationID, UserID: userID, EntryType: entity.EntryTypeManualIn, Quantity: decimal.Zero},
			domain.ErrInvalidInput,
		},
		{
			"cantidad negativa",
			ledger.CreateEntryInput{ProductID: productID, LocationID: locationID, UserID: userID, EntryType: entity.EntryTypeManualIn, Quantity: decimal.NewFromInt(-2)},
			domain.ErrInvalidInput,
		},
		{
			"producto inexistente",
			ledger.CreateEntryInput{ProductID: "prod-fantasma", LocationID: locationID, UserID: userID, EntryType: entity.EntryTypeManualIn, Quantity: decimal.NewFromInt(1)},
			domain.ErrNotFound,
		},
		{
			"ubicación inexistente",
			ledger.CreateEntryInput{ProductID: productID, LocationID: "loc-fantasma", UserID: userID, EntryType: entity.EntryTypeManualIn, Quantity: decimal.NewFromInt(1)},
			domain.ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_AumentoDeSalidaRevalida(t *testing.T) {
	f := newFixture(t)
	f.create(t, entity.EntryTypeManualIn, "10")
	out := f.create(t, entity.EntryTypeManualOut, "6")

	// Subir la salida a 11 dejaría el saldo en -1.
	eleven := decimal.NewFromInt(11)
	_, err := f.uc.Update(context.Background(), out.ID, ledger.UpdateEntryPatch{Quantity: &eleven}, userID, "ajuste")
	assert.ErrorIs(t, err, domain.ErrNegativeInventory)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(4)), "el rechazo no debe alterar el saldo")

	// Subirla a 10 deja el saldo exactamente en cero: permitido.
	ten := decimal.NewFromInt(10)
	updated, err := f.uc.Update(context.Background(), out.ID, ledger.UpdateEntryPatch{Quantity: &ten}, userID, "ajuste")
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(ten))
	assert.True(t, f.balance(t).IsZero())
}

func TestUpdate_ReduccionDeSalidaNoRevalida(t *testing.T) {
	f := newFixture(t)
	f.create(t, entity.EntryTypeManualIn, "10")
	out := f.create(t, entity.EntryTypeManualOut, "6")

	two := decimal.NewFromInt(2)
	_, err := f.uc.Update(context.Background(), out.ID, ledger.UpdateEntryPatch{Quantity: &two}, userID, "")
	require.NoError(t, err)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(8)))
}

func TestUpdate_CambioDeUbicacionValidaOrigen(t *testing.T) {
	f := newFixture(t)
	f.store.SeedLocation(entity.Location{ID: "loc-2", Name: "Bodega secundaria", IsActive: true})
	in := f.create(t, entity.EntryTypeManualIn, "5")
	f.create(t, entity.EntryTypeManualOut, "3")

	// Mover la entrada a otra bodega dejaría el origen en -3.
	loc2 := "loc-2"
	_, err := f.uc.Update(context.Background(), in.ID, ledger.UpdateEntryPatch{LocationID: &loc2}, userID, "")
	assert.ErrorIs(t, err, domain.ErrNegativeInventory)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(2)))
}

func TestUpdate_GeneraAuditoriaConAmbosSnapshots(t *testing.T) {
	f := newFixture(t)
	entry := f.create(t, entity.EntryTypeManualIn, "5")

	eight := decimal.NewFromInt(8)
	_, err := f.uc.Update(context.Background(), entry.ID, ledger.UpdateEntryPatch{Quantity: &eight}, userID, "corrección de conteo")
	require.NoError(t, err)

	logs := f.auditsFor(t, entry.ID)
	require.Len(t, logs, 2)
	update := logs[1]
	assert.Equal(t, entity.AuditActionUpdate, update.Action)
	assert.Equal(t, "corrección de conteo", update.Reason)
	require.NotEmpty(t, update.OldData)
	require.NotEmpty(t, update.NewData)

	old, err := entity.EntryFromSnapshot(update.OldData)
	require.NoError(t, err)
	assert.True(t, old.Quantity.Equal(decimal.NewFromInt(5)))
	curr, err := entity.EntryFromSnapshot(update.NewData)
	require.NoError(t, err)
	assert.True(t, curr.Quantity.Equal(eight))
}

func TestUpdate_ParcheVacioEsInvalido(t *testing.T) {
	f := newFixture(t)
	entry := f.create(t, entity.EntryTypeManualIn, "5")
	_, err := f.uc.Update(context.Background(), entry.ID, ledger.UpdateEntryPatch{}, userID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_MovimientoInexistente(t *testing.T) {
	f := newFixture(t)
	one := decimal.NewFromInt(1)
	_, err := f.uc.Update(context.Background(), "mov-fantasma", ledger.UpdateEntryPatch{Quantity: &one}, userID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_EntradaQueSostieneSalidas(t *testing.T) {
	f := newFixture(t)
	in := f.create(t, entity.EntryTypeManualIn, "5")
	out := f.create(t, entity.EntryTypeManualOut, "3")

	// Quitar la entrada dejaría la salida colgando en -3.
	err := f.uc.Delete(context.Background(), in.ID, userID, "")
	assert.ErrorIs(t, err, domain.ErrNegativeInventory)

	// Quitar la salida siempre es seguro (el saldo solo puede subir).
	require.NoError(t, f.uc.Delete(context.Background(), out.ID, userID, "salida registrada por error"))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(5)))

	logs := f.auditsFor(t, out.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.AuditActionDelete, logs[1].Action)
	assert.NotEmpty(t, logs[1].OldData, "delete debe conservar el snapshot de la fila")
	assert.Empty(t, logs[1].NewData)
}

func TestDelete_MovimientoInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.uc.Delete(context.Background(), "mov-fantasma", userID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestBalance_GlobalYPorUbicacion(t *testing.T) {
	f := newFixture(t)
	f.store.SeedLocation(entity.Location{ID: "loc-2", Name: "Bodega secundaria", IsActive: true})
	f.create(t, entity.EntryTypeManualIn, "5")

	_, err := f.uc.Create(context.Background(), ledger.CreateEntryInput{
		ProductID:  productID,
		LocationID: "loc-2",
		UserID:     userID,
		EntryType:  entity.EntryTypeManualIn,
		Quantity:   decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	global, err := f.uc.Balance(context.Background(), productID, "")
	require.NoError(t, err)
	assert.True(t, global.Equal(decimal.NewFromInt(8)))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(5)))

	balances, err := f.uc.Balances(context.Background(), "loc-2")
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, balances[0].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestBalance_ProductoSinMovimientosEsCero(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.balance(t).IsZero())
}

func TestGetByID_NoEncontrado(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetByID(context.Background(), "mov-fantasma")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

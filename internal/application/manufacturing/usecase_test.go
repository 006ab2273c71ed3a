package manufacturing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/manufactura-api/internal/application/formula"
	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
	"github.com/tu-usuario/manufactura-api/internal/application/manufacturing"
	"github.com/tu-usuario/manufactura-api/internal/domain"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/infrastructure/memory"
)

const (
	parentID   = "prod-torta"
	compID     = "prod-harina"
	locationID = "loc-planta"
	userID     = "user-1"
)

type captureNotifier struct {
	ids []string
}

func (n *captureNotifier) NotifyStockChange(productIDs ...string) {
	n.ids = append(n.ids, productIDs...)
}

type fixture struct {
	store    *memory.Store
	uc       *manufacturing.UseCase
	ledgerUC *ledger.UseCase
	notifier *captureNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedProduct(entity.Product{ID: parentID, SKU: "TOR-01", Name: "Torta", Category: entity.CategoryFinished, Unit: "und"})
	store.SeedProduct(entity.Product{ID: compID, SKU: "HAR-01", Name: "Harina", Category: entity.CategoryRawMaterial, Unit: "kg"})
	store.SeedLocation(entity.Location{ID: locationID, Name: "Planta", IsActive: true})

	txRunner := memory.NewTxRunner(store)
	notifier := &captureNotifier{}
	ledgerUC := ledger.NewUseCase(
		txRunner,
		memory.NewLedgerRepository(store),
		memory.NewProductRepository(store),
		memory.NewLocationRepository(store),
		nil, // las notificaciones del escenario las captura el motor
	)
	uc := manufacturing.NewUseCase(
		txRunner,
		ledgerUC,
		memory.NewProductRepository(store),
		memory.NewLocationRepository(store),
		memory.NewFormulaRepository(store),
		notifier,
	)
	return &fixture{store: store, uc: uc, ledgerUC: ledgerUC, notifier: notifier}
}

// seedFormula agrega la arista padre→componente con la cantidad por unidad.
func (f *fixture) seedFormula(t *testing.T, component, qtyPerUnit string) {
	t.Helper()
	formulaUC := formula.NewUseCase(
		memory.NewTxRunner(f.store),
		memory.NewFormulaRepository(f.store),
		memory.NewProductRepository(f.store),
	)
	_, err := formulaUC.AddComponent(context.Background(), parentID, component, decimal.RequireFromString(qtyPerUnit))
	require.NoError(t, err)
}

// seedStock carga saldo de un producto vía una entrada manual.
func (f *fixture) seedStock(t *testing.T, product, qty string) {
	t.Helper()
	_, err := f.ledgerUC.Create(context.Background(), ledger.CreateEntryInput{
		ProductID:  product,
		LocationID: locationID,
		UserID:     userID,
		EntryType:  entity.EntryTypeManualIn,
		Quantity:   decimal.RequireFromString(qty),
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, product string) decimal.Decimal {
	t.Helper()
	b, err := f.ledgerUC.Balance(context.Background(), product, locationID)
	require.NoError(t, err)
	return b
}

func (f *fixture) entryCount(t *testing.T, product string) int {
	t.Helper()
	entries, err := f.ledgerUC.ListByProduct(context.Background(), product, nil, nil, 100, 0)
	require.NoError(t, err)
	return len(entries)
}

// ──────────────────────────────────────────────────────────────────────────────
// Expansión
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterProduction_ExpandeYCorrelaciona(t *testing.T) {
	f := newFixture(t)
	f.seedFormula(t, compID, "2")
	f.seedStock(t, compID, "10")

	result, err := f.uc.RegisterProduction(context.Background(), manufacturing.ProductionInput{
		ParentProductID: parentID,
		Quantity:        decimal.NewFromInt(4),
		LocationID:      locationID,
		UserID:          userID,
	})
	require.NoError(t, err)

	parent := result.ParentEntry
	assert.Equal(t, entity.EntryTypeManufacturingIn, parent.EntryType)
	assert.True(t, parent.Quantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, parent.ID, parent.ReferenceID,
		"sin referencia externa, la fila padre se referencia a sí misma")

	require.Len(t, result.ComponentEntries, 1)
	comp := result.ComponentEntries[0]
	assert.Equal(t, entity.EntryTypeManufacturingOut, comp.EntryType)
	assert.True(t, comp.Quantity.Equal(decimal.NewFromInt(-8)),
		"el descuento se almacena negado: -(2 por unidad × 4 unidades)")
	assert.Equal(t, parent.ID, comp.ReferenceID, "todas las filas comparten la correlación")

	assert.True(t, f.balance(t, parentID).Equal(decimal.NewFromInt(4)))
	assert.True(t, f.balance(t, compID).Equal(decimal.NewFromInt(2)))

	// Ambos productos notificados para evaluación de alertas post-commit.
	assert.ElementsMatch(t, []string{parentID, compID}, f.notifier.ids)
}

func TestRegisterProduction_RecuperableViaListByReference(t *testing.T) {
	f := newFixture(t)
	f.seedFormula(t, compID, "2")
	f.seedStock(t, compID, "10")

	result, err := f.uc.RegisterProduction(context.Background(), manufacturing.ProductionInput{
		ParentProductID: parentID,
		Quantity:        decimal.NewFromInt(3),
		LocationID:      locationID,
		UserID:          userID,
	})
	require.NoError(t, err)

	rows, err := f.ledgerUC.ListByReference(context.Background(), result.ParentEntry.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "padre + componente recuperables por reference_id")
}

// Escenario de referencia: P consume 2 de C por unidad, hay 10 de C,
// producir 6 exige 12. Nada debe escribirse.
func TestRegisterProduction_ComponenteInsuficienteEsAtomico(t *testing.T) {
	f := newFixture(t)
	f.seedFormula(t, compID, "2")
	f.seedStock(t, compID, "10")

	_, err := f.uc.RegisterProduction(context.Background(), manufacturing.ProductionInput{
		ParentProductID: parentID,
		Quantity:        decimal.NewFromInt(6),
		LocationID:      locationID,
		UserID:          userID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufErr *domain.InsufficientComponentError
	require.ErrorAs(t, err, &insufErr)
	assert.Equal(t, compID, insufErr.ComponentID)
	assert.True(t, insufErr.Required.Equal(decimal.NewFromInt(12)))
	assert.True(t, insufErr.Available.Equal(decimal.NewFromInt(10)))
	assert.True(t, insufErr.Short().Equal(decimal.NewFromInt(2)))

	assert.Equal(t, 0, f.entryCount(t, parentID), "ni la fila padre debe existir")
	assert.Equal(t, 1, f.entryCount(t, compID), "solo la carga inicial de stock")
	assert.True(t, f.balance(t, compID).Equal(decimal.NewFromInt(10)))
	assert.Empty(t, f.notifier.ids, "una producción rechazada no notifica")
}

func TestRegisterProduction_SinFormulaDegradaAFilaSimple(t *testing.T) {
	f := newFixture(t)

	result, err := f.uc.RegisterProduction(context.Background(), manufacturing.ProductionInput{
		ParentProductID: parentID,
		Quantity:        decimal.NewFromInt(5),
		LocationID:      locationID,
		UserID:          userID,
	})
	require.NoError(t, err)
	assert.Empty(t, result.ComponentEntries)
	assert.True(t, f.balance(t, parentID).Equal(decimal.NewFromInt(5)))
}

func TestRegisterProduction_ReferenciaExterna(t *testing.T) {
	f := newFixture(t)
	f.seedFormula(t, compID, "1")
	f.seedStock(t, compID, "10")

	result, err := f.uc.RegisterProduction(context.Background(), manufacturing.ProductionInput{
		ParentProductID: parentID,
		Quantity:        decimal.NewFromInt(2),
		LocationID:      locationID,
		UserID:          userID,
		ReferenceID:     "lote-2026-08",
	})
	require.NoError(t, err)
	assert.Equal(t, "lote-2026-08", result.ParentEntry.ReferenceID)
	require.Len(t, result.ComponentEntries, 1)
	assert.Equal(t, result.ParentEntry.ID, result.ComponentEntries[0].ReferenceID,
		"los componentes siempre referencian la fila padre")
}

func TestRegisterProduction_EspejaAuditoriaPorFila(t *testing.T) {
	f := newFixture(t)
	f.seedFormula(t, compID, "2")
	f.seedStock(t, compID, "10")

	result, err := f.uc.RegisterProduction(context.Background(), manufacturing.ProductionInput{
		ParentProductID: parentID,
		Quantity:        decimal.NewFromInt(1),
		LocationID:      locationID,
		UserID:          userID,
	})
	require.NoError(t, err)

	auditRepo := memory.NewAuditRepository(f.store)
	parentLogs, err := auditRepo.ListByEntry(result.ParentEntry.ID)
	require.NoError(t, err)
	require.Len(t, parentLogs, 1)
	assert.Equal(t, entity.AuditActionCreate, parentLogs[0].Action)
	assert.Equal(t, "producción registrada", parentLogs[0].Reason)

	compLogs, err := auditRepo.ListByEntry(result.ComponentEntries[0].ID)
	require.NoError(t, err)
	require.Len(t, compLogs, 1)
	assert.Equal(t, "descuento automático de componente", compLogs[0].Reason)
}

func TestRegisterProduction_Validaciones(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   manufacturing.ProductionInput
		want error
	}{
		{
			"cantidad cero",
			manufacturing.ProductionInput{ParentProductID: parentID, LocationID: locationID, UserID: userID, Quantity: decimal.Zero},
			domain.ErrInvalidInput,
		},
		{
			"sin ubicación",
			manufacturing.ProductionInput{ParentProductID: parentID, UserID: userID, Quantity: decimal.NewFromInt(1)},
			domain.ErrInvalidInput,
		},
		{
			"producto inexistente",
			manufacturing.ProductionInput{ParentProductID: "prod-fantasma", LocationID: locationID, UserID: userID, Quantity: decimal.NewFromInt(1)},
			domain.ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RegisterProduction(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/manufactura-api/internal/application/alerts"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/infrastructure/memory"
)

const (
	productID  = "prod-harina"
	locationID = "loc-bodega"
)

type fixture struct {
	store *memory.Store
	eval  *alerts.Evaluator
}

func newFixture(t *testing.T, minStock string) *fixture {
	t.Helper()
	store := memory.NewStore()
	var threshold *decimal.Decimal
	if minStock != "" {
		v := decimal.RequireFromString(minStock)
		threshold = &v
	}
	store.SeedProduct(entity.Product{
		ID: productID, SKU: "HAR-01", Name: "Harina", Category: entity.CategoryRawMaterial,
		Unit: "kg", MinStock: threshold,
	})
	store.SeedLocation(entity.Location{ID: locationID, Name: "Bodega", IsActive: true})

	eval := alerts.NewEvaluator(
		memory.NewProductRepository(store),
		memory.NewLedgerRepository(store),
		memory.NewAlertRepository(store),
	)
	return &fixture{store: store, eval: eval}
}

// setStock deja el saldo del producto exactamente en qty (una sola fila).
func (f *fixture) setStock(t *testing.T, entryID, qty string) {
	t.Helper()
	repo := memory.NewLedgerRepository(f.store)
	_ = repo.Delete(entryID)
	require.NoError(t, repo.Create(&entity.LedgerEntry{
		ID:         entryID,
		ProductID:  productID,
		LocationID: locationID,
		UserID:     "user-1",
		Quantity:   decimal.RequireFromString(qty),
		EntryType:  entity.EntryTypeManualIn,
		CreatedAt:  time.Now(),
	}))
}

func (f *fixture) openAlerts(t *testing.T) []*entity.StockAlert {
	t.Helper()
	list, err := f.eval.ListOpen(context.Background())
	require.NoError(t, err)
	return list
}

func (f *fixture) unread(t *testing.T) []*entity.Notification {
	t.Helper()
	list, err := f.eval.ListUnread(context.Background())
	require.NoError(t, err)
	return list
}

func TestEvaluate_CreaAlertaYNotificacion(t *testing.T) {
	f := newFixture(t, "10")
	f.setStock(t, "mov-1", "5")

	require.NoError(t, f.eval.Evaluate(context.Background(), productID))

	open := f.openAlerts(t)
	require.Len(t, open, 1)
	assert.Equal(t, productID, open[0].ProductID)
	assert.True(t, open[0].CurrentStock.Equal(decimal.NewFromInt(5)))
	assert.True(t, open[0].MinStock.Equal(decimal.NewFromInt(10)))

	notifications := f.unread(t)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "Harina")
}

// Re-evaluar un producto ya alertado refresca el stock reportado pero no
// duplica ni la alerta ni la notificación sin leer.
func TestEvaluate_NoDuplicaAlertaNiNotificacion(t *testing.T) {
	f := newFixture(t, "10")
	f.setStock(t, "mov-1", "5")
	require.NoError(t, f.eval.Evaluate(context.Background(), productID))

	f.setStock(t, "mov-1", "3")
	require.NoError(t, f.eval.Evaluate(context.Background(), productID))

	open := f.openAlerts(t)
	require.Len(t, open, 1, "a lo sumo una alerta abierta por producto")
	assert.True(t, open[0].CurrentStock.Equal(decimal.NewFromInt(3)), "el stock reportado se refresca")
	assert.Len(t, f.unread(t), 1, "a lo sumo una notificación sin leer por alerta")
}

// Tras leer la notificación, una nueva evaluación bajo umbral puede avisar de
// nuevo: la deduplicación es sobre notificaciones sin leer.
func TestEvaluate_NotificaDeNuevoTrasLectura(t *testing.T) {
	f := newFixture(t, "10")
	f.setStock(t, "mov-1", "5")
	require.NoError(t, f.eval.Evaluate(context.Background(), productID))

	first := f.unread(t)
	require.Len(t, first, 1)
	require.NoError(t, f.eval.MarkRead(context.Background(), first[0].ID))
	require.Empty(t, f.unread(t))

	require.NoError(t, f.eval.Evaluate(context.Background(), productID))
	assert.Len(t, f.unread(t), 1)
	assert.Len(t, f.openAlerts(t), 1)
}

func TestEvaluate_RecuperacionResuelveAlerta(t *testing.T) {
	f := newFixture(t, "10")
	f.setStock(t, "mov-1", "5")
	require.NoError(t, f.eval.Evaluate(context.Background(), productID))
	require.Len(t, f.openAlerts(t), 1)

	f.setStock(t, "mov-1", "15")
	require.NoError(t, f.eval.Evaluate(context.Background(), productID))

	assert.Empty(t, f.openAlerts(t), "el saldo recuperado cierra la alerta")
}

// El umbral es inclusivo hacia abajo: saldo == mínimo también alerta.
func TestEvaluate_SaldoIgualAlUmbralAlerta(t *testing.T) {
	f := newFixture(t, "10")
	f.setStock(t, "mov-1", "10")

	require.NoError(t, f.eval.Evaluate(context.Background(), productID))
	assert.Len(t, f.openAlerts(t), 1)
}

func TestEvaluate_SinUmbralNoEvalua(t *testing.T) {
	f := newFixture(t, "")
	f.setStock(t, "mov-1", "0")

	require.NoError(t, f.eval.Evaluate(context.Background(), productID))
	assert.Empty(t, f.openAlerts(t))
	assert.Empty(t, f.unread(t))
}

func TestEvaluate_ProductoDesconocidoSeIgnora(t *testing.T) {
	f := newFixture(t, "10")
	require.NoError(t, f.eval.Evaluate(context.Background(), "prod-fantasma"))
	assert.Empty(t, f.openAlerts(t))
}

func TestEvaluateAll_RecorreProductosConUmbral(t *testing.T) {
	f := newFixture(t, "10")
	f.setStock(t, "mov-1", "2")
	// Producto sin umbral: no debe participar.
	f.store.SeedProduct(entity.Product{ID: "prod-azucar", SKU: "AZU-01", Name: "Azúcar", Category: entity.CategoryRawMaterial, Unit: "kg"})

	require.NoError(t, f.eval.EvaluateAll(context.Background()))
	open := f.openAlerts(t)
	require.Len(t, open, 1)
	assert.Equal(t, productID, open[0].ProductID)
}

package formula_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/manufactura-api/internal/application/formula"
	"github.com/tu-usuario/manufactura-api/internal/domain"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/infrastructure/memory"
)

type fixture struct {
	store *memory.Store
	uc    *formula.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	seed := func(id, category string) {
		store.SeedProduct(entity.Product{ID: id, SKU: id, Name: id, Category: category, Unit: "und"})
	}
	seed("torta", entity.CategoryFinished)
	seed("masa", entity.CategorySemiFinished)
	seed("relleno", entity.CategorySemiFinished)
	seed("harina", entity.CategoryRawMaterial)

	uc := formula.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewFormulaRepository(store),
		memory.NewProductRepository(store),
	)
	return &fixture{store: store, uc: uc}
}

func (f *fixture) add(t *testing.T, parent, component, qty string) *entity.FormulaComponent {
	t.Helper()
	edge, err := f.uc.AddComponent(context.Background(), parent, component, decimal.RequireFromString(qty))
	require.NoError(t, err)
	return edge
}

func (f *fixture) components(t *testing.T, parent string) []*entity.FormulaComponent {
	t.Helper()
	list, err := f.uc.Components(context.Background(), parent)
	require.NoError(t, err)
	return list
}

func TestAddComponent_AristaSimple(t *testing.T) {
	f := newFixture(t)

	edge := f.add(t, "torta", "masa", "2")
	assert.Equal(t, "torta", edge.ParentProductID)
	assert.Equal(t, "masa", edge.ComponentProductID)
	assert.True(t, edge.QuantityPerUnit.Equal(decimal.NewFromInt(2)))

	list := f.components(t, "torta")
	require.Len(t, list, 1)
	assert.Equal(t, "masa", list[0].ComponentProductID)
}

func TestAddComponent_Validaciones(t *testing.T) {
	f := newFixture(t)
	one := decimal.NewFromInt(1)

	cases := []struct {
		name              string
		parent, component string
		qty               decimal.Decimal
		want              error
	}{
		{"autorreferencia", "torta", "torta", one, domain.ErrSelfReference},
		{"cantidad cero", "torta", "masa", decimal.Zero, domain.ErrInvalidInput},
		{"cantidad negativa", "torta", "masa", decimal.NewFromInt(-1), domain.ErrInvalidInput},
		{"padre inexistente", "prod-fantasma", "masa", one, domain.ErrNotFound},
		{"componente inexistente", "torta", "prod-fantasma", one, domain.ErrNotFound},
		{"un insumo no tiene fórmula", "harina", "masa", one, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.AddComponent(context.Background(), tc.parent, tc.component, tc.qty)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAddComponent_AristaDuplicada(t *testing.T) {
	f := newFixture(t)
	f.add(t, "torta", "masa", "2")

	_, err := f.uc.AddComponent(context.Background(), "torta", "masa", decimal.NewFromInt(3))
	assert.ErrorIs(t, err, domain.ErrComponentExists)

	list := f.components(t, "torta")
	require.Len(t, list, 1)
	assert.True(t, list[0].QuantityPerUnit.Equal(decimal.NewFromInt(2)),
		"la arista original no debe modificarse")
}

func TestAddComponent_CicloDirecto(t *testing.T) {
	f := newFixture(t)
	f.add(t, "torta", "masa", "1")

	_, err := f.uc.AddComponent(context.Background(), "masa", "torta", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrCircularDependency)
	assert.Empty(t, f.components(t, "masa"), "el rechazo no debe dejar arista")
}

// La arista X→Y se rechaza si X ya es alcanzable descendiendo desde Y,
// a cualquier profundidad (recorrido completo, sin tope).
func TestAddComponent_CicloTransitivo(t *testing.T) {
	f := newFixture(t)
	f.add(t, "torta", "masa", "1")
	f.add(t, "masa", "relleno", "1")

	_, err := f.uc.AddComponent(context.Background(), "relleno", "torta", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrCircularDependency)

	// El grafo queda exactamente como estaba.
	assert.Len(t, f.components(t, "torta"), 1)
	assert.Len(t, f.components(t, "masa"), 1)
	assert.Empty(t, f.components(t, "relleno"))
}

func TestAddComponent_DiamanteNoEsCiclo(t *testing.T) {
	f := newFixture(t)
	// torta→masa, torta→relleno, masa→harina, relleno→harina: compartir un
	// descendiente no es un ciclo.
	f.add(t, "torta", "masa", "1")
	f.add(t, "torta", "relleno", "1")
	f.add(t, "masa", "harina", "0.5")
	f.add(t, "relleno", "harina", "0.2")

	assert.Len(t, f.components(t, "torta"), 2)
}

func TestUsedIn_ListaDondeParticipa(t *testing.T) {
	f := newFixture(t)
	f.add(t, "torta", "harina", "1")
	f.add(t, "masa", "harina", "2")

	edges, err := f.uc.UsedIn(context.Background(), "harina")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "masa", edges[0].ParentProductID)
	assert.Equal(t, "torta", edges[1].ParentProductID)
}

func TestRemoveComponent_YRemoveAll(t *testing.T) {
	f := newFixture(t)
	f.add(t, "torta", "masa", "1")
	f.add(t, "torta", "relleno", "1")

	require.NoError(t, f.uc.RemoveComponent(context.Background(), "torta", "masa"))
	assert.Len(t, f.components(t, "torta"), 1)

	require.NoError(t, f.uc.RemoveAll(context.Background(), "torta"))
	assert.Empty(t, f.components(t, "torta"))
}

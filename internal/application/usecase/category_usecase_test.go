package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-service/internal/application/cache"
	"github.com/jhoicas/catalog-service/internal/application/dto"
	"github.com/jhoicas/catalog-service/internal/domain"
)

// ─── Lecturas ────────────────────────────────────────────────────────────────

func TestCategoryList_SegundaLecturaVieneDeCache(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	ctx := context.Background()

	first, err := e.catUC.List(ctx, false, nil)
	require.NoError(t, err)
	second, err := e.catUC.List(ctx, false, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, e.categories.Count("List"))
	assert.True(t, e.cached(cache.CategoryListKey(false, nil)))
}

func TestCategoryGetByID_NoExiste_NoSeCachea(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.catUC.GetByID(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.catUC.GetByID(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, e.categories.Count("GetByID"))
	assert.False(t, e.cached(cache.CategoryKey("nada")))
}

func TestCategoryTree_ArmaJerarquia(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	e.categories.Put(category("camisas", strPtr("ropa")))

	tree, err := e.catUC.Tree(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "ropa", tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "camisas", tree[0].Children[0].ID)
}

// ─── Create ──────────────────────────────────────────────────────────────────

func TestCategoryCreate_InvalidaListadosYArbol(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedKeys(cache.CategoryListKey(false, nil), cache.CategoryTreeKey(true), "products:page:1:size:20")

	out, err := e.catUC.Create(ctx, dto.CreateCategoryRequest{ID: "ropa", Name: "Ropa"})
	require.NoError(t, err)
	assert.True(t, out.IsActive)

	assert.False(t, e.cached(cache.CategoryListKey(false, nil)))
	assert.False(t, e.cached(cache.CategoryTreeKey(true)))
	assert.True(t, e.cached("products:page:1:size:20"), "crear una categoría no toca listados de productos")
}

func TestCategoryCreate_IDDuplicado(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	e.seedKeys(cache.CategoryTreeKey(false))

	_, err := e.catUC.Create(context.Background(), dto.CreateCategoryRequest{ID: "ropa", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, e.cached(cache.CategoryTreeKey(false)))
}

func TestCategoryCreate_NombreDuplicado(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))

	_, err := e.catUC.Create(context.Background(), dto.CreateCategoryRequest{ID: "otra", Name: "Cat ropa"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryCreate_PropioPadre(t *testing.T) {
	e := newEnv()
	_, err := e.catUC.Create(context.Background(), dto.CreateCategoryRequest{ID: "a", Name: "A", ParentID: strPtr("a")})
	assert.ErrorIs(t, err, domain.ErrSelfParent)
	assert.Zero(t, e.categories.Count("Create"))
}

func TestCategoryCreate_PadreInexistente(t *testing.T) {
	e := newEnv()
	_, err := e.catUC.Create(context.Background(), dto.CreateCategoryRequest{ID: "a", Name: "A", ParentID: strPtr("nada")})
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestCategoryCreate_FallaStore_NoInvalida(t *testing.T) {
	e := newEnv()
	e.categories.Fail["Create"] = errStoreDown
	e.seedKeys(cache.CategoryTreeKey(false))

	_, err := e.catUC.Create(context.Background(), dto.CreateCategoryRequest{ID: "a", Name: "A"})
	assert.ErrorIs(t, err, errStoreDown)
	assert.True(t, e.cached(cache.CategoryTreeKey(false)))
}

// ─── Update ──────────────────────────────────────────────────────────────────

func TestCategoryUpdate_LecturaPosteriorVeElCambio(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	ctx := context.Background()

	before, err := e.catUC.GetByID(ctx, "ropa")
	require.NoError(t, err)
	assert.Equal(t, "Cat ropa", before.Name)

	_, err = e.catUC.Update(ctx, "ropa", dto.UpdateCategoryRequest{Name: strPtr("Vestuario")})
	require.NoError(t, err)

	after, err := e.catUC.GetByID(ctx, "ropa")
	require.NoError(t, err)
	assert.Equal(t, "Vestuario", after.Name)
}

func TestCategoryUpdate_DetalleDeProductoVeLaCategoriaNueva(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	seedProduct(e, "p1", "ropa", "10.00", 5)
	ctx := context.Background()

	before, err := e.prodUC.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cat ropa", before.Category.Name)
	require.True(t, e.cached(cache.ProductKey("p1")))

	_, err = e.catUC.Update(ctx, "ropa", dto.UpdateCategoryRequest{Name: strPtr("Vestuario")})
	require.NoError(t, err)
	assert.False(t, e.cached(cache.ProductKey("p1")))

	after, err := e.prodUC.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Vestuario", after.Category.Name)
}

func TestCategoryUpdate_PadreVacioLaVuelveRaiz(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	e.categories.Put(category("camisas", strPtr("ropa")))

	out, err := e.catUC.Update(context.Background(), "camisas", dto.UpdateCategoryRequest{ParentID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, out.ParentID)
}

func TestCategoryUpdate_PropioPadre(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))

	_, err := e.catUC.Update(context.Background(), "ropa", dto.UpdateCategoryRequest{ParentID: strPtr("ropa")})
	assert.ErrorIs(t, err, domain.ErrSelfParent)
	assert.Zero(t, e.categories.Count("Update"))
}

func TestCategoryUpdate_CicloConDescendiente(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("a", nil))
	e.categories.Put(category("b", strPtr("a")))
	e.categories.Put(category("c", strPtr("b")))

	_, err := e.catUC.Update(context.Background(), "a", dto.UpdateCategoryRequest{ParentID: strPtr("c")})
	assert.ErrorIs(t, err, domain.ErrSelfParent)
}

func TestCategoryUpdate_NoExiste(t *testing.T) {
	e := newEnv()
	_, err := e.catUC.Update(context.Background(), "nada", dto.UpdateCategoryRequest{Name: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryUpdate_FallaStore_NoInvalida(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	e.categories.Fail["Update"] = errStoreDown
	e.seedKeys(cache.CategoryKey("ropa"), cache.CategoryTreeKey(false))

	_, err := e.catUC.Update(context.Background(), "ropa", dto.UpdateCategoryRequest{SortOrder: intPtr(3)})
	assert.ErrorIs(t, err, errStoreDown)
	assert.True(t, e.cached(cache.CategoryKey("ropa")))
	assert.True(t, e.cached(cache.CategoryTreeKey(false)))
}

// ─── Delete ──────────────────────────────────────────────────────────────────

func TestCategoryDelete_ConHijasSinForce_Rechaza(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	e.categories.Put(category("camisas", strPtr("ropa")))

	err := e.catUC.Delete(context.Background(), "ropa", false)
	assert.ErrorIs(t, err, domain.ErrHasChildren)
	assert.Contains(t, err.Error(), "force=true")
	assert.Len(t, e.categories.Snapshot(), 2)
	assert.Zero(t, e.tx.Runs)
}

func TestCategoryDelete_Force_HijasQuedanRaizYSeInvalidan(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	e.categories.Put(category("camisas", strPtr("ropa")))
	e.categories.Put(category("pantalones", strPtr("ropa")))
	e.seedKeys(cache.CategoryKey("ropa"), cache.CategoryKey("camisas"), cache.CategoryKey("pantalones"),
		cache.CategoryTreeKey(false))

	require.NoError(t, e.catUC.Delete(context.Background(), "ropa", true))

	items := e.categories.Snapshot()
	assert.NotContains(t, items, "ropa")
	assert.Nil(t, items["camisas"].ParentID)
	assert.Nil(t, items["pantalones"].ParentID)
	assert.Equal(t, 1, e.tx.Runs)
	assert.Zero(t, e.cache.Len(), "detalle de la borrada, de sus hijas y árbol deben invalidarse")
}

func TestCategoryDelete_ForceFallaStore_Revierte(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	e.categories.Put(category("camisas", strPtr("ropa")))
	e.categories.Fail["Delete"] = errStoreDown
	e.seedKeys(cache.CategoryKey("camisas"))

	err := e.catUC.Delete(context.Background(), "ropa", true)
	assert.ErrorIs(t, err, errStoreDown)

	items := e.categories.Snapshot()
	require.Contains(t, items, "camisas")
	require.NotNil(t, items["camisas"].ParentID)
	assert.Equal(t, "ropa", *items["camisas"].ParentID)
	assert.True(t, e.cached(cache.CategoryKey("camisas")))
}

func TestCategoryDelete_SinHijas(t *testing.T) {
	e := newEnv()
	e.categories.Put(category("ropa", nil))
	e.seedKeys(cache.CategoryKey("ropa"))

	require.NoError(t, e.catUC.Delete(context.Background(), "ropa", false))
	assert.Zero(t, e.tx.Runs)
	assert.False(t, e.cached(cache.CategoryKey("ropa")))
}

func TestCategoryDelete_NoExiste(t *testing.T) {
	e := newEnv()
	err := e.catUC.Delete(context.Background(), "nada", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

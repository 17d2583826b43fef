package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalog-service/internal/domain"
	"github.com/jhoicas/catalog-service/internal/domain/repository"
)

func TestProductWhere_SinFiltros(t *testing.T) {
	where, args := productWhere(repository.ProductFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestProductWhere_FiltrosCombinadosConAND(t *testing.T) {
	cat := "electronics"
	search := "phone"
	minP := decimal.NewFromInt(10)
	maxP := decimal.NewFromInt(500)
	where, args := productWhere(repository.ProductFilter{
		CategoryID:   &cat,
		Search:       &search,
		MinPrice:     &minP,
		MaxPrice:     &maxP,
		InStockOnly:  true,
		FeaturedOnly: true,
		ActiveOnly:   true,
	})

	assert.Equal(t,
		" WHERE is_active = TRUE AND category_id = $1"+
			` AND (name ILIKE $2 ESCAPE '\' OR description ILIKE $2 ESCAPE '\'`+
			` OR short_description ILIKE $2 ESCAPE '\' OR sku ILIKE $2 ESCAPE '\')`+
			" AND price >= $3 AND price <= $4 AND stock_quantity > 0 AND is_featured = TRUE",
		where)
	assert.Equal(t, []any{"electronics", "%phone%", minP, maxP}, args)
}

func TestProductWhere_BusquedaEscapaComodines(t *testing.T) {
	search := `50%_a\b`
	_, args := productWhere(repository.ProductFilter{Search: &search})
	assert.Equal(t, []any{`%50\%\_a\\b%`}, args)
}

func TestProductWhere_BusquedaVaciaSeIgnora(t *testing.T) {
	empty := ""
	where, args := productWhere(repository.ProductFilter{Search: &empty})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestMapProductWriteErr(t *testing.T) {
	unique := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505", ConstraintName: "products_slug_key"})
	fk := &pgconn.PgError{Code: "23503"}
	other := &pgconn.PgError{Code: "42P01"}

	assert.ErrorIs(t, mapProductWriteErr("insert product", unique), domain.ErrDuplicate)
	assert.ErrorIs(t, mapProductWriteErr("insert product", fk), domain.ErrCategoryNotFound)

	err := mapProductWriteErr("insert product", other)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "insert product")
}

func TestMapCategoryWriteErr(t *testing.T) {
	assert.ErrorIs(t, mapCategoryWriteErr("insert category", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)
	assert.ErrorIs(t, mapCategoryWriteErr("update category", &pgconn.PgError{Code: "23503"}), domain.ErrParentNotFound)
}

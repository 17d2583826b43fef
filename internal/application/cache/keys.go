// Package cache contiene la capa de consistencia de caché del catálogo:
// construcción de claves, lectura read-through e invalidación tras escrituras.
package cache

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	productPrefix  = "product"
	categoryPrefix = "category"
	productsList   = "products"
	categoriesList = "categories"

	// ProductsPattern casa con todas las vistas de listas de productos.
	ProductsPattern = productsList + ":*"
	// ProductDetailsPattern casa con el detalle de todos los productos (no con sus listas).
	ProductDetailsPattern = productPrefix + ":*"
	// CategoriesPattern casa con todas las vistas de listas y árbol de categorías.
	CategoriesPattern = categoriesList + ":*"
)

// ProductKey clave de un producto individual.
func ProductKey(id string) string {
	return productPrefix + ":" + id
}

// CategoryKey clave de una categoría individual.
func CategoryKey(id string) string {
	return categoryPrefix + ":" + id
}

// ProductListQuery consulta lógica de listado de productos.
// Un puntero nil significa "no enviado" y no aparece en la clave;
// un valor explícito aparece aunque coincida con el valor por defecto.
type ProductListQuery struct {
	CategoryID *string
	Search     *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	Featured   *bool
	Active     *bool
	SortBy     *string
	SortOrder  *string
	Page       int
	Size       int
}

// Key produce la clave determinista de la consulta. El orden de los segmentos es fijo.
func (q ProductListQuery) Key() string {
	parts := []string{productsList}
	if q.CategoryID != nil {
		parts = append(parts, "cat", escape(*q.CategoryID))
	}
	if q.Search != nil {
		parts = append(parts, "search", escape(*q.Search))
	}
	if q.MinPrice != nil {
		parts = append(parts, "min_price", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		parts = append(parts, "max_price", q.MaxPrice.String())
	}
	if q.InStock != nil {
		parts = append(parts, "in_stock", strconv.FormatBool(*q.InStock))
	}
	if q.Featured != nil {
		parts = append(parts, "featured", strconv.FormatBool(*q.Featured))
	}
	if q.Active != nil {
		parts = append(parts, "active", strconv.FormatBool(*q.Active))
	}
	if q.SortBy != nil {
		parts = append(parts, "sort_by", escape(*q.SortBy))
	}
	if q.SortOrder != nil {
		parts = append(parts, "sort_order", escape(*q.SortOrder))
	}
	parts = append(parts,
		"page", strconv.Itoa(q.Page),
		"size", strconv.Itoa(q.Size),
	)
	return strings.Join(parts, ":")
}

// CategoryListKey clave del listado de categorías; parentID nil = sin filtro de padre.
func CategoryListKey(includeInactive bool, parentID *string) string {
	key := categoriesList + ":list:inactive:" + strconv.FormatBool(includeInactive)
	if parentID != nil {
		key += ":parent:" + escape(*parentID)
	}
	return key
}

// CategoryTreeKey clave del árbol completo de categorías.
func CategoryTreeKey(includeInactive bool) string {
	return categoriesList + ":tree:inactive:" + strconv.FormatBool(includeInactive)
}

// escape evita que ':' o '*' en texto libre fabriquen segmentos o patrones.
func escape(s string) string {
	return url.QueryEscape(s)
}

package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-service/internal/domain/entity"
)

// Columnas permitidas para ordenar productos.
const (
	SortByName          = "name"
	SortByPrice         = "price"
	SortByCreatedAt     = "created_at"
	SortByUpdatedAt     = "updated_at"
	SortByStockQuantity = "stock_quantity"
)

// ProductFilter filtros, orden y paginación del listado de productos.
type ProductFilter struct {
	CategoryID   *string
	Search       *string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	InStockOnly  bool
	FeaturedOnly bool
	ActiveOnly   bool
	SortBy       string
	SortDesc     bool
	Limit        int
	Offset       int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update no modifica stock_quantity.
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id string, quantity int) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	Delete(ctx context.Context, id string) error
}

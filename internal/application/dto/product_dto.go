package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Los montos se validan en el caso de uso.
type CreateProductRequest struct {
	ID               string           `json:"id" validate:"required,min=1,max=50"`
	Name             string           `json:"name" validate:"required,min=1,max=200"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"short_description" validate:"omitempty,max=500"`
	SKU              string           `json:"sku" validate:"required,min=1,max=100"`
	CategoryID       string           `json:"category_id" validate:"required,min=1,max=50"`
	Price            decimal.Decimal  `json:"price"`
	CostPrice        *decimal.Decimal `json:"cost_price"`
	SalePrice        *decimal.Decimal `json:"sale_price"`
	StockQuantity    int              `json:"stock_quantity" validate:"min=0"`
	MinStockLevel    int              `json:"min_stock_level" validate:"min=0"`
	MaxStockLevel    *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	IsActive         *bool            `json:"is_active"`
	IsFeatured       bool             `json:"is_featured"`
	IsDigital        bool             `json:"is_digital"`
	ImageURL         *string          `json:"image_url" validate:"omitempty,max=500"`
	ThumbnailURL     *string          `json:"thumbnail_url" validate:"omitempty,max=500"`
	GalleryImages    *string          `json:"gallery_images"`
	Weight           *decimal.Decimal `json:"weight"`
	Dimensions       *string          `json:"dimensions" validate:"omitempty,max=100"`
	Tags             *string          `json:"tags"`
	MetaTitle        *string          `json:"meta_title" validate:"omitempty,max=200"`
	MetaDescription  *string          `json:"meta_description" validate:"omitempty,max=500"`
	Slug             *string          `json:"slug" validate:"omitempty,max=200"`
}

// UpdateProductRequest actualización parcial; solo se aplican los campos enviados.
type UpdateProductRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"short_description" validate:"omitempty,max=500"`
	SKU              *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	CategoryID       *string          `json:"category_id" validate:"omitempty,min=1,max=50"`
	Price            *decimal.Decimal `json:"price"`
	CostPrice        *decimal.Decimal `json:"cost_price"`
	SalePrice        *decimal.Decimal `json:"sale_price"`
	StockQuantity    *int             `json:"stock_quantity" validate:"omitempty,min=0"`
	MinStockLevel    *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel    *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	IsActive         *bool            `json:"is_active"`
	IsFeatured       *bool            `json:"is_featured"`
	IsDigital        *bool            `json:"is_digital"`
	ImageURL         *string          `json:"image_url" validate:"omitempty,max=500"`
	ThumbnailURL     *string          `json:"thumbnail_url" validate:"omitempty,max=500"`
	GalleryImages    *string          `json:"gallery_images"`
	Weight           *decimal.Decimal `json:"weight"`
	Dimensions       *string          `json:"dimensions" validate:"omitempty,max=100"`
	Tags             *string          `json:"tags"`
	MetaTitle        *string          `json:"meta_title" validate:"omitempty,max=200"`
	MetaDescription  *string          `json:"meta_description" validate:"omitempty,max=500"`
	Slug             *string          `json:"slug" validate:"omitempty,max=200"`
}

// ProductResponse detalle de un producto con su categoría embebida.
type ProductResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      *string           `json:"description"`
	ShortDescription *string           `json:"short_description"`
	SKU              string            `json:"sku"`
	CategoryID       string            `json:"category_id"`
	Price            Money             `json:"price"`
	CostPrice        *Money            `json:"cost_price"`
	SalePrice        *Money            `json:"sale_price"`
	StockQuantity    int               `json:"stock_quantity"`
	MinStockLevel    int               `json:"min_stock_level"`
	MaxStockLevel    *int              `json:"max_stock_level"`
	IsActive         bool              `json:"is_active"`
	IsFeatured       bool              `json:"is_featured"`
	IsDigital        bool              `json:"is_digital"`
	ImageURL         *string           `json:"image_url"`
	ThumbnailURL     *string           `json:"thumbnail_url"`
	GalleryImages    *string           `json:"gallery_images"`
	Weight           *decimal.Decimal  `json:"weight"`
	Dimensions       *string           `json:"dimensions"`
	Tags             *string           `json:"tags"`
	MetaTitle        *string           `json:"meta_title"`
	MetaDescription  *string           `json:"meta_description"`
	Slug             *string           `json:"slug"`
	IsInStock        bool              `json:"is_in_stock"`
	IsLowStock       bool              `json:"is_low_stock"`
	EffectivePrice   Money             `json:"effective_price"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Category         *CategoryResponse `json:"category"`
}

// ProductListItem proyección compacta usada en listados.
type ProductListItem struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription *string          `json:"short_description"`
	SKU              string           `json:"sku"`
	Price            Money            `json:"price"`
	SalePrice        *Money           `json:"sale_price"`
	EffectivePrice   Money            `json:"effective_price"`
	StockQuantity    int              `json:"stock_quantity"`
	IsInStock        bool             `json:"is_in_stock"`
	IsLowStock       bool             `json:"is_low_stock"`
	IsFeatured       bool             `json:"is_featured"`
	ImageURL         *string          `json:"image_url"`
	ThumbnailURL     *string          `json:"thumbnail_url"`
	CategoryID       string           `json:"category_id"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ProductPage listado paginado de productos.
type ProductPage struct {
	Items []ProductListItem `json:"items"`
	PageResponse
}

// ProductListParams filtros de listado tal como llegaron. nil = no enviado.
type ProductListParams struct {
	Page         int
	Size         int
	CategoryID   *string
	Search       *string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	InStockOnly  *bool
	FeaturedOnly *bool
	ActiveOnly   *bool
	SortBy       *string
	SortOrder    *string
}

// StockUpdateResponse resultado de un ajuste de inventario.
type StockUpdateResponse struct {
	Message          string `json:"message"`
	ProductID        string `json:"product_id"`
	NewStockQuantity int    `json:"new_stock_quantity"`
	IsInStock        bool   `json:"is_in_stock"`
	IsLowStock       bool   `json:"is_low_stock"`
}

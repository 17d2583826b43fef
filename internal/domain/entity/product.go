package entity

import (
	"time"

	"github.com/jhoicas/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Price, CostPrice y SalePrice son NUMERIC(10,2); Weight es NUMERIC(8,3).
type Product struct {
	ID               string
	Name             string
	Description      *string
	ShortDescription *string
	SKU              string // único
	CategoryID       string
	Price            decimal.Decimal
	CostPrice        *decimal.Decimal
	SalePrice        *decimal.Decimal
	StockQuantity    int
	MinStockLevel    int
	MaxStockLevel    *int
	IsActive         bool
	IsFeatured       bool
	IsDigital        bool
	ImageURL         *string
	ThumbnailURL     *string
	GalleryImages    *string
	Weight           *decimal.Decimal
	Dimensions       *string
	Tags             *string
	MetaTitle        *string
	MetaDescription  *string
	Slug             *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsInStock true si hay unidades disponibles.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// IsLowStock true si el stock está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// EffectivePrice devuelve el precio de oferta si existe y es menor al precio regular.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.LessThan(p.Price) {
		return *p.SalePrice
	}
	return p.Price
}

// Validate verifica las invariantes de precio y de niveles de stock.
func (p *Product) Validate() error {
	if p.SalePrice != nil && !p.SalePrice.LessThan(p.Price) {
		return domain.ErrInvalidPrice
	}
	if p.MaxStockLevel != nil && *p.MaxStockLevel <= p.MinStockLevel {
		return domain.ErrInvalidStockBand
	}
	return nil
}

package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalog-service/internal/domain"
	"github.com/jhoicas/catalog-service/internal/domain/entity"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProduct_PrecioDeOfertaMayor_Invalido(t *testing.T) {
	p := &entity.Product{Price: decimal.RequireFromString("100.00"), SalePrice: dec("120.00")}
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidPrice)
}

func TestProduct_PrecioDeOfertaIgual_Invalido(t *testing.T) {
	p := &entity.Product{Price: decimal.RequireFromString("100.00"), SalePrice: dec("100")}
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidPrice)
}

func TestProduct_PrecioEfectivo(t *testing.T) {
	p := &entity.Product{Price: decimal.RequireFromString("100.00"), SalePrice: dec("80.00")}
	assert.NoError(t, p.Validate())
	assert.True(t, p.EffectivePrice().Equal(decimal.RequireFromString("80.00")))

	p.SalePrice = nil
	assert.True(t, p.EffectivePrice().Equal(decimal.RequireFromString("100.00")))
}

func TestProduct_NivelesDeStock(t *testing.T) {
	maxLevel := 5
	p := &entity.Product{Price: decimal.NewFromInt(1), MinStockLevel: 5, MaxStockLevel: &maxLevel}
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidStockBand)

	maxLevel = 6
	assert.NoError(t, p.Validate())
}

func TestProduct_Derivados(t *testing.T) {
	p := &entity.Product{StockQuantity: 0, MinStockLevel: 0}
	assert.False(t, p.IsInStock())
	assert.True(t, p.IsLowStock())

	p.StockQuantity = 3
	p.MinStockLevel = 2
	assert.True(t, p.IsInStock())
	assert.False(t, p.IsLowStock())
}

package dto

import "github.com/shopspring/decimal"

// Money importe monetario. En JSON siempre lleva dos decimales ("80.00").
type Money struct {
	decimal.Decimal
}

// NewMoney envuelve un decimal.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyPtr nil si d es nil.
func MoneyPtr(d *decimal.Decimal) *Money {
	if d == nil {
		return nil
	}
	m := NewMoney(*d)
	return &m
}

// MarshalJSON serializa con escala fija; la lectura usa la de decimal.Decimal.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

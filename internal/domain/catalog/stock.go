package catalog

import (
	"fmt"

	"github.com/jhoicas/catalog-service/internal/domain"
)

// StockOperation modo de ajuste de inventario.
type StockOperation string

const (
	StockSet      StockOperation = "set"
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
)

// ParseStockOperation valida el modo recibido por query string. Vacío = set.
func ParseStockOperation(s string) (StockOperation, error) {
	switch StockOperation(s) {
	case "":
		return StockSet, nil
	case StockSet, StockAdd, StockSubtract:
		return StockOperation(s), nil
	}
	return "", fmt.Errorf("operación %q: %w", s, domain.ErrInvalidInput)
}

// AdjustStock calcula el nuevo stock (servicio de dominio).
// El resultado nunca es negativo: subtract por encima del disponible retorna ErrInsufficientStock.
func AdjustStock(current, quantity int, op StockOperation) (int, error) {
	if quantity < 0 {
		return current, domain.ErrInvalidInput
	}
	switch op {
	case StockSet:
		return quantity, nil
	case StockAdd:
		return current + quantity, nil
	case StockSubtract:
		next := current - quantity
		if next < 0 {
			return current, domain.ErrInsufficientStock
		}
		return next, nil
	}
	return current, domain.ErrInvalidInput
}

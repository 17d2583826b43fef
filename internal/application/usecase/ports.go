package usecase

import (
	"context"

	"github.com/jhoicas/catalog-service/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repositorios atados a ella.
// Si fn retorna error la transacción se revierte y nada queda escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		productRepo repository.ProductRepository,
	) error) error
}

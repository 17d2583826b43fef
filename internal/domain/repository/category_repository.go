package repository

import (
	"context"

	"github.com/jhoicas/catalog-service/internal/domain/entity"
)

// CategoryFilter filtros del listado de categorías.
type CategoryFilter struct {
	IncludeInactive bool
	ParentID        *string
}

// CategoryRepository define el puerto de persistencia para Category (DIP).
// Las relaciones padre/hijas se recorren con llamadas explícitas, nunca con carga perezosa.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, filter CategoryFilter) ([]*entity.Category, error)
	ListChildren(ctx context.Context, parentID string) ([]*entity.Category, error)
	CountChildren(ctx context.Context, parentID string) (int, error)
	ClearParent(ctx context.Context, parentID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

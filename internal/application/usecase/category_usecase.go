package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/catalog-service/internal/application/cache"
	"github.com/jhoicas/catalog-service/internal/application/dto"
	"github.com/jhoicas/catalog-service/internal/domain"
	"github.com/jhoicas/catalog-service/internal/domain/catalog"
	"github.com/jhoicas/catalog-service/internal/domain/entity"
	"github.com/jhoicas/catalog-service/internal/domain/repository"
)

// maxCategoryDepth corta la búsqueda de ciclos ante datos ya corruptos.
const maxCategoryDepth = 64

// CategoryUseCase casos de uso de categorías. Lecturas por caché read-through;
// escrituras directas al store seguidas de invalidación.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	tx    TxRunner
	reads *cache.Accessor
	inv   *cache.Invalidator
	ttl   time.Duration
}

// NewCategoryUseCase construye el caso de uso. ttl aplica a detalle, listados y árbol.
func NewCategoryUseCase(repo repository.CategoryRepository, tx TxRunner, reads *cache.Accessor, inv *cache.Invalidator, ttl time.Duration) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, tx: tx, reads: reads, inv: inv, ttl: ttl}
}

// List categorías ordenadas por sort_order y nombre.
func (uc *CategoryUseCase) List(ctx context.Context, includeInactive bool, parentID *string) ([]dto.CategoryResponse, error) {
	key := cache.CategoryListKey(includeInactive, parentID)
	return cache.ReadThrough(ctx, uc.reads, key, uc.ttl, func(ctx context.Context) ([]dto.CategoryResponse, error) {
		list, err := uc.repo.List(ctx, repository.CategoryFilter{IncludeInactive: includeInactive, ParentID: parentID})
		if err != nil {
			return nil, err
		}
		out := make([]dto.CategoryResponse, 0, len(list))
		for _, c := range list {
			out = append(out, *toCategoryResponse(c))
		}
		return out, nil
	})
}

// Tree jerarquía completa desde las raíces.
func (uc *CategoryUseCase) Tree(ctx context.Context, includeInactive bool) ([]dto.CategoryTreeNode, error) {
	key := cache.CategoryTreeKey(includeInactive)
	return cache.ReadThrough(ctx, uc.reads, key, uc.ttl, func(ctx context.Context) ([]dto.CategoryTreeNode, error) {
		list, err := uc.repo.List(ctx, repository.CategoryFilter{IncludeInactive: includeInactive})
		if err != nil {
			return nil, err
		}
		return toTreeNodes(catalog.BuildTree(list)), nil
	})
}

// GetByID ErrNotFound si no existe (el resultado negativo no se cachea).
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	return cache.ReadThrough(ctx, uc.reads, cache.CategoryKey(id), uc.ttl, func(ctx context.Context) (*dto.CategoryResponse, error) {
		c, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.ErrNotFound
		}
		return toCategoryResponse(c), nil
	})
}

// Create valida unicidad de id y nombre y la existencia del padre antes de insertar.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	existing, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe una categoría con id %q", domain.ErrDuplicate, in.ID)
	}
	byName, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if byName != nil {
		return nil, fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, in.Name)
	}
	parentID := normalizeParent(in.ParentID)
	if parentID != nil {
		if *parentID == in.ID {
			return nil, domain.ErrSelfParent
		}
		if err := uc.requireParent(ctx, *parentID); err != nil {
			return nil, err
		}
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	now := time.Now()
	c := &entity.Category{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		ParentID:    parentID,
		IsActive:    isActive,
		SortOrder:   in.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.inv.CategoryCreated(ctx)
	return toCategoryResponse(c), nil
}

// Update aplica solo los campos enviados. parent_id "" convierte la categoría en raíz.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil && *in.Name != c.Name {
		other, err := uc.repo.GetByName(ctx, *in.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, *in.Name)
		}
		c.Name = *in.Name
	}
	if in.ParentID != nil {
		parentID := normalizeParent(in.ParentID)
		if parentID != nil {
			if *parentID == id {
				return nil, domain.ErrSelfParent
			}
			if err := uc.requireParent(ctx, *parentID); err != nil {
				return nil, err
			}
			if err := uc.rejectCycle(ctx, id, *parentID); err != nil {
				return nil, err
			}
		}
		c.ParentID = parentID
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.inv.CategoryChanged(ctx, id)
	return toCategoryResponse(c), nil
}

// Delete elimina la categoría. Con hijas exige force; con force las hijas quedan
// como raíces y el borrado ocurre en la misma transacción.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string, force bool) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	n, err := uc.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 && !force {
		return fmt.Errorf("%w: no se puede eliminar una categoría con subcategorías, use force=true", domain.ErrHasChildren)
	}

	affected := []string{id}
	if n == 0 {
		if err := uc.repo.Delete(ctx, id); err != nil {
			return err
		}
		uc.inv.CategoryChanged(ctx, affected...)
		return nil
	}

	err = uc.tx.Run(ctx, func(categories repository.CategoryRepository, _ repository.ProductRepository) error {
		children, err := categories.ListChildren(ctx, id)
		if err != nil {
			return err
		}
		if _, err := categories.ClearParent(ctx, id); err != nil {
			return err
		}
		if err := categories.Delete(ctx, id); err != nil {
			return err
		}
		for _, ch := range children {
			affected = append(affected, ch.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.inv.CategoryChanged(ctx, affected...)
	return nil
}

func (uc *CategoryUseCase) requireParent(ctx context.Context, parentID string) error {
	p, err := uc.repo.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrParentNotFound
	}
	return nil
}

// rejectCycle sube desde el nuevo padre hasta la raíz; si pasa por id, el cambio cerraría un ciclo.
func (uc *CategoryUseCase) rejectCycle(ctx context.Context, id, parentID string) error {
	cur := parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		p, err := uc.repo.GetByID(ctx, cur)
		if err != nil {
			return err
		}
		if p == nil || p.IsRoot() {
			return nil
		}
		if *p.ParentID == id {
			return fmt.Errorf("%w: %q es descendiente de %q", domain.ErrSelfParent, parentID, id)
		}
		cur = *p.ParentID
	}
	return nil
}

func normalizeParent(parentID *string) *string {
	if parentID == nil || *parentID == "" {
		return nil
	}
	return parentID
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		IsActive:    c.IsActive,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toTreeNodes(nodes []*catalog.TreeNode) []dto.CategoryTreeNode {
	out := make([]dto.CategoryTreeNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, dto.CategoryTreeNode{
			CategoryResponse: *toCategoryResponse(n.Category),
			Children:         toTreeNodes(n.Children),
		})
	}
	return out
}

// Package usecasetest repositorios y transacción en memoria para probar casos de uso
// y handlers sin PostgreSQL.
package usecasetest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/catalog-service/internal/application/usecase"
	"github.com/jhoicas/catalog-service/internal/domain"
	"github.com/jhoicas/catalog-service/internal/domain/entity"
	"github.com/jhoicas/catalog-service/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ usecase.TxRunner              = (*Tx)(nil)
)

// CategoryRepo repositorio de categorías en memoria. Fail fuerza errores por método.
type CategoryRepo struct {
	mu    sync.Mutex
	Items map[string]entity.Category
	order []string
	Fail  map[string]error // método -> error forzado
	calls map[string]int
}

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{Items: map[string]entity.Category{}, Fail: map[string]error{}, calls: map[string]int{}}
}

func (r *CategoryRepo) hit(method string) error {
	r.calls[method]++
	return r.Fail[method]
}

// Count llamadas registradas a method.
func (r *CategoryRepo) Count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

// Put inserta o reemplaza sin pasar por las validaciones del store.
func (r *CategoryRepo) Put(c entity.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	r.Items[c.ID] = c
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("Create"); err != nil {
		return err
	}
	if _, ok := r.Items[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.Items[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("GetByID"); err != nil {
		return nil, err
	}
	c, ok := r.Items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("GetByName"); err != nil {
		return nil, err
	}
	for _, c := range r.Items {
		if c.Name == name {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("Update"); err != nil {
		return err
	}
	if _, ok := r.Items[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.Items[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List(_ context.Context, f repository.CategoryFilter) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("List"); err != nil {
		return nil, err
	}
	var out []*entity.Category
	for _, id := range r.order {
		c, ok := r.Items[id]
		if !ok {
			continue
		}
		if !f.IncludeInactive && !c.IsActive {
			continue
		}
		if f.ParentID != nil && (c.ParentID == nil || *c.ParentID != *f.ParentID) {
			continue
		}
		cp := c
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *CategoryRepo) ListChildren(ctx context.Context, parentID string) ([]*entity.Category, error) {
	return r.List(ctx, repository.CategoryFilter{IncludeInactive: true, ParentID: &parentID})
}

func (r *CategoryRepo) CountChildren(ctx context.Context, parentID string) (int, error) {
	list, err := r.ListChildren(ctx, parentID)
	return len(list), err
}

func (r *CategoryRepo) ClearParent(_ context.Context, parentID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("ClearParent"); err != nil {
		return 0, err
	}
	var n int64
	for id, c := range r.Items {
		if c.ParentID != nil && *c.ParentID == parentID {
			c.ParentID = nil
			r.Items[id] = c
			n++
		}
	}
	return n, nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("Delete"); err != nil {
		return err
	}
	if _, ok := r.Items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.Items, id)
	return nil
}

// Snapshot copia del contenido actual.
func (r *CategoryRepo) Snapshot() map[string]entity.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]entity.Category, len(r.Items))
	for k, v := range r.Items {
		cp[k] = v
	}
	return cp
}

func (r *CategoryRepo) restore(items map[string]entity.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = items
}

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct {
	mu    sync.Mutex
	Items map[string]entity.Product
	Fail  map[string]error
	calls map[string]int
	last  repository.ProductFilter

	// AfterRead se ejecuta tras cada lectura por ID, fuera del lock (simula escrituras concurrentes).
	AfterRead func(id string)
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{Items: map[string]entity.Product{}, Fail: map[string]error{}, calls: map[string]int{}}
}

func (r *ProductRepo) hit(method string) error {
	r.calls[method]++
	return r.Fail[method]
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("Create"); err != nil {
		return err
	}
	r.Items[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.read("GetByID", id)
}

func (r *ProductRepo) read(method, id string) (*entity.Product, error) {
	r.mu.Lock()
	err := r.hit(method)
	p, ok := r.Items[id]
	hook := r.AfterRead
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook(id)
	}
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("GetBySKU"); err != nil {
		return nil, err
	}
	for _, p := range r.Items {
		if p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetByIDForUpdate(_ context.Context, id string) (*entity.Product, error) {
	return r.read("GetByIDForUpdate", id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("Update"); err != nil {
		return err
	}
	cur, ok := r.Items[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *p
	next.StockQuantity = cur.StockQuantity
	r.Items[p.ID] = next
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("UpdateStock"); err != nil {
		return err
	}
	p, ok := r.Items[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = quantity
	r.Items[id] = p
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("List"); err != nil {
		return nil, 0, err
	}
	r.last = f
	var all []*entity.Product
	for _, p := range r.Items {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if f.Search != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*f.Search)) {
			continue
		}
		if f.InStockOnly && p.StockQuantity <= 0 {
			continue
		}
		cp := p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := min(f.Offset+f.Limit, total)
	return all[f.Offset:end], total, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("Delete"); err != nil {
		return err
	}
	if _, ok := r.Items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.Items, id)
	return nil
}

// Put inserta o reemplaza sin pasar por las validaciones del store.
func (r *ProductRepo) Put(p entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items[p.ID] = p
}

// Get copia del producto almacenado.
func (r *ProductRepo) Get(id string) (entity.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Items[id]
	return p, ok
}

// Last último filtro recibido por List.
func (r *ProductRepo) Last() repository.ProductFilter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Count llamadas registradas a method.
func (r *ProductRepo) Count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

// Tx ejecuta fn sobre los mismos repositorios; si fn falla revierte las categorías.
type Tx struct {
	Categories *CategoryRepo
	Products   *ProductRepo
	Runs       int
}

func (t *Tx) Run(_ context.Context, fn func(repository.CategoryRepository, repository.ProductRepository) error) error {
	t.Runs++
	snap := t.Categories.Snapshot()
	if err := fn(t.Categories, t.Products); err != nil {
		t.Categories.restore(snap)
		return err
	}
	return nil
}

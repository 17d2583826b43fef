package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-service/internal/application/cache"
	"github.com/jhoicas/catalog-service/internal/application/dto"
	"github.com/jhoicas/catalog-service/internal/domain"
	"github.com/jhoicas/catalog-service/internal/domain/catalog"
	"github.com/jhoicas/catalog-service/internal/domain/entity"
	"github.com/jhoicas/catalog-service/internal/domain/repository"
)

// ProductTTLs expiración de las vistas de productos en caché.
type ProductTTLs struct {
	List   time.Duration
	Detail time.Duration
}

// PageLimits tamaños de página permitidos.
type PageLimits struct {
	DefaultSize int
	MaxSize     int
}

// ProductUseCase casos de uso de productos.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	tx         TxRunner
	reads      *cache.Accessor
	inv        *cache.Invalidator
	ttl        ProductTTLs
	limits     PageLimits
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	tx TxRunner,
	reads *cache.Accessor,
	inv *cache.Invalidator,
	ttl ProductTTLs,
	limits PageLimits,
) *ProductUseCase {
	if limits.DefaultSize <= 0 {
		limits.DefaultSize = 20
	}
	if limits.MaxSize < limits.DefaultSize {
		limits.MaxSize = 100
	}
	return &ProductUseCase{
		products:   products,
		categories: categories,
		tx:         tx,
		reads:      reads,
		inv:        inv,
		ttl:        ttl,
		limits:     limits,
	}
}

// List listado paginado con filtros. Por defecto: solo activos, orden created_at desc.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListParams) (*dto.ProductPage, error) {
	filter, err := uc.buildFilter(&in)
	if err != nil {
		return nil, err
	}
	key := cache.ProductListQuery{
		CategoryID: in.CategoryID,
		Search:     in.Search,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		InStock:    in.InStockOnly,
		Featured:   in.FeaturedOnly,
		Active:     in.ActiveOnly,
		SortBy:     in.SortBy,
		SortOrder:  in.SortOrder,
		Page:       in.Page,
		Size:       in.Size,
	}.Key()

	return cache.ReadThrough(ctx, uc.reads, key, uc.ttl.List, func(ctx context.Context) (*dto.ProductPage, error) {
		list, total, err := uc.products.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		items := make([]dto.ProductListItem, 0, len(list))
		for _, p := range list {
			items = append(items, toProductListItem(p))
		}
		pg := catalog.Paginate(total, in.Page, in.Size)
		return &dto.ProductPage{
			Items: items,
			PageResponse: dto.PageResponse{
				Total:   pg.Total,
				Page:    pg.Page,
				Size:    pg.Size,
				Pages:   pg.Pages,
				HasNext: pg.HasNext,
				HasPrev: pg.HasPrev,
			},
		}, nil
	})
}

// ListByCategory ErrNotFound si la categoría no existe; si existe delega en List.
func (uc *ProductUseCase) ListByCategory(ctx context.Context, categoryID string, in dto.ProductListParams) (*dto.ProductPage, error) {
	c, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrNotFound, categoryID)
	}
	in.CategoryID = &categoryID
	return uc.List(ctx, in)
}

// GetByID detalle con la categoría embebida.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	return cache.ReadThrough(ctx, uc.reads, cache.ProductKey(id), uc.ttl.Detail, func(ctx context.Context) (*dto.ProductResponse, error) {
		p, err := uc.products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		c, err := uc.categories.GetByID(ctx, p.CategoryID)
		if err != nil {
			return nil, err
		}
		return toProductResponse(p, c), nil
	})
}

// Create valida id, sku y categoría antes de insertar. Slug por defecto derivado del nombre.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateAmounts(&in.Price, in.CostPrice, in.SalePrice, in.Weight); err != nil {
		return nil, err
	}
	existing, err := uc.products.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un producto con id %q", domain.ErrDuplicate, in.ID)
	}
	bySKU, err := uc.products.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if bySKU != nil {
		return nil, fmt.Errorf("%w: ya existe un producto con sku %q", domain.ErrDuplicate, in.SKU)
	}
	c, err := uc.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}

	slug := in.Slug
	if slug == nil || *slug == "" {
		s := catalog.Slugify(in.Name)
		slug = &s
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	now := time.Now()
	p := &entity.Product{
		ID:               in.ID,
		Name:             in.Name,
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		SKU:              in.SKU,
		CategoryID:       in.CategoryID,
		Price:            in.Price,
		CostPrice:        in.CostPrice,
		SalePrice:        in.SalePrice,
		StockQuantity:    in.StockQuantity,
		MinStockLevel:    in.MinStockLevel,
		MaxStockLevel:    in.MaxStockLevel,
		IsActive:         isActive,
		IsFeatured:       in.IsFeatured,
		IsDigital:        in.IsDigital,
		ImageURL:         in.ImageURL,
		ThumbnailURL:     in.ThumbnailURL,
		GalleryImages:    in.GalleryImages,
		Weight:           in.Weight,
		Dimensions:       in.Dimensions,
		Tags:             in.Tags,
		MetaTitle:        in.MetaTitle,
		MetaDescription:  in.MetaDescription,
		Slug:             slug,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.inv.ProductCreated(ctx)
	return toProductResponse(p, c), nil
}

// Update aplica los campos enviados y revalida las invariantes sobre el producto resultante.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var (
		updated  *entity.Product
		category *entity.Category
	)
	// Fila bloqueada hasta el commit: un ajuste de stock concurrente espera y no se pisa.
	err := uc.tx.Run(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository) error {
		p, err := products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if in.SKU != nil && *in.SKU != p.SKU {
			other, err := products.GetBySKU(ctx, *in.SKU)
			if err != nil {
				return err
			}
			if other != nil && other.ID != id {
				return fmt.Errorf("%w: ya existe un producto con sku %q", domain.ErrDuplicate, *in.SKU)
			}
		}
		categoryID := p.CategoryID
		if in.CategoryID != nil {
			categoryID = *in.CategoryID
		}
		c, err := categories.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrCategoryNotFound
		}

		applyProductPatch(p, in)
		if err := validateAmounts(&p.Price, p.CostPrice, p.SalePrice, p.Weight); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		p.UpdatedAt = time.Now()

		if err := products.Update(ctx, p); err != nil {
			return err
		}
		// Update no escribe stock_quantity; solo se toca si vino en el parche.
		if in.StockQuantity != nil {
			if err := products.UpdateStock(ctx, id, p.StockQuantity); err != nil {
				return err
			}
		}
		updated, category = p, c
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.inv.ProductChanged(ctx, id)
	return toProductResponse(updated, category), nil
}

// Delete ErrNotFound si no existe.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}
	uc.inv.ProductChanged(ctx, id)
	return nil
}

// AdjustStock lectura con bloqueo de fila, cálculo y escritura en una sola transacción.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id string, quantity int, operation string) (*dto.StockUpdateResponse, error) {
	op, err := catalog.ParseStockOperation(operation)
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}

	var updated *entity.Product
	err = uc.tx.Run(ctx, func(_ repository.CategoryRepository, products repository.ProductRepository) error {
		p, err := products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		next, err := catalog.AdjustStock(p.StockQuantity, quantity, op)
		if err != nil {
			return err
		}
		if err := products.UpdateStock(ctx, id, next); err != nil {
			return err
		}
		p.StockQuantity = next
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.inv.ProductChanged(ctx, id)
	return &dto.StockUpdateResponse{
		Message:          "Stock actualizado correctamente",
		ProductID:        id,
		NewStockQuantity: updated.StockQuantity,
		IsInStock:        updated.IsInStock(),
		IsLowStock:       updated.IsLowStock(),
	}, nil
}

// buildFilter valida los parámetros y resuelve los valores por defecto para el store.
// Page y Size quedan resueltos en in (siempre forman parte de la clave).
func (uc *ProductUseCase) buildFilter(in *dto.ProductListParams) (repository.ProductFilter, error) {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Size == 0 {
		in.Size = uc.limits.DefaultSize
	}
	if in.Page < 1 {
		return repository.ProductFilter{}, fmt.Errorf("%w: page debe ser >= 1", domain.ErrInvalidInput)
	}
	if in.Size < 1 || in.Size > uc.limits.MaxSize {
		return repository.ProductFilter{}, fmt.Errorf("%w: size debe estar entre 1 y %d", domain.ErrInvalidInput, uc.limits.MaxSize)
	}
	for _, bound := range []*decimal.Decimal{in.MinPrice, in.MaxPrice} {
		if bound != nil && bound.IsNegative() {
			return repository.ProductFilter{}, fmt.Errorf("%w: los límites de precio no pueden ser negativos", domain.ErrInvalidInput)
		}
	}

	f := repository.ProductFilter{
		CategoryID: in.CategoryID,
		Search:     in.Search,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		ActiveOnly: true,
		SortBy:     repository.SortByCreatedAt,
		SortDesc:   true,
		Limit:      in.Size,
		Offset:     catalog.Offset(in.Page, in.Size),
	}
	if in.InStockOnly != nil {
		f.InStockOnly = *in.InStockOnly
	}
	if in.FeaturedOnly != nil {
		f.FeaturedOnly = *in.FeaturedOnly
	}
	if in.ActiveOnly != nil {
		f.ActiveOnly = *in.ActiveOnly
	}
	if in.SortBy != nil {
		switch *in.SortBy {
		case repository.SortByName, repository.SortByPrice, repository.SortByCreatedAt,
			repository.SortByUpdatedAt, repository.SortByStockQuantity:
			f.SortBy = *in.SortBy
		default:
			return repository.ProductFilter{}, fmt.Errorf("%w: sort_by %q no soportado", domain.ErrInvalidInput, *in.SortBy)
		}
	}
	if in.SortOrder != nil {
		switch *in.SortOrder {
		case "asc":
			f.SortDesc = false
		case "desc":
			f.SortDesc = true
		default:
			return repository.ProductFilter{}, fmt.Errorf("%w: sort_order debe ser asc o desc", domain.ErrInvalidInput)
		}
	}
	return f, nil
}

// validateAmounts price > 0; costo, oferta y peso >= 0; dos decimales en montos y tres en peso.
func validateAmounts(price, cost, sale, weight *decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: price debe ser mayor a 0", domain.ErrInvalidInput)
	}
	check := func(name string, v *decimal.Decimal, places int32) error {
		if v == nil {
			return nil
		}
		if v.IsNegative() {
			return fmt.Errorf("%w: %s no puede ser negativo", domain.ErrInvalidInput, name)
		}
		if !v.Equal(v.Truncate(places)) {
			return fmt.Errorf("%w: %s admite máximo %d decimales", domain.ErrInvalidInput, name, places)
		}
		return nil
	}
	if err := check("price", price, 2); err != nil {
		return err
	}
	if err := check("cost_price", cost, 2); err != nil {
		return err
	}
	if err := check("sale_price", sale, 2); err != nil {
		return err
	}
	return check("weight", weight, 3)
}

func applyProductPatch(p *entity.Product, in dto.UpdateProductRequest) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.ShortDescription != nil {
		p.ShortDescription = in.ShortDescription
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CostPrice != nil {
		p.CostPrice = in.CostPrice
	}
	if in.SalePrice != nil {
		p.SalePrice = in.SalePrice
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.MinStockLevel != nil {
		p.MinStockLevel = *in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		p.MaxStockLevel = in.MaxStockLevel
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsDigital != nil {
		p.IsDigital = *in.IsDigital
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	if in.ThumbnailURL != nil {
		p.ThumbnailURL = in.ThumbnailURL
	}
	if in.GalleryImages != nil {
		p.GalleryImages = in.GalleryImages
	}
	if in.Weight != nil {
		p.Weight = in.Weight
	}
	if in.Dimensions != nil {
		p.Dimensions = in.Dimensions
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if in.MetaTitle != nil {
		p.MetaTitle = in.MetaTitle
	}
	if in.MetaDescription != nil {
		p.MetaDescription = in.MetaDescription
	}
	if in.Slug != nil {
		p.Slug = in.Slug
	}
}

func toProductResponse(p *entity.Product, c *entity.Category) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		SKU:              p.SKU,
		CategoryID:       p.CategoryID,
		Price:            dto.NewMoney(p.Price),
		CostPrice:        dto.MoneyPtr(p.CostPrice),
		SalePrice:        dto.MoneyPtr(p.SalePrice),
		StockQuantity:    p.StockQuantity,
		MinStockLevel:    p.MinStockLevel,
		MaxStockLevel:    p.MaxStockLevel,
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
		IsDigital:        p.IsDigital,
		ImageURL:         p.ImageURL,
		ThumbnailURL:     p.ThumbnailURL,
		GalleryImages:    p.GalleryImages,
		Weight:           p.Weight,
		Dimensions:       p.Dimensions,
		Tags:             p.Tags,
		MetaTitle:        p.MetaTitle,
		MetaDescription:  p.MetaDescription,
		Slug:             p.Slug,
		IsInStock:        p.IsInStock(),
		IsLowStock:       p.IsLowStock(),
		EffectivePrice:   dto.NewMoney(p.EffectivePrice()),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Category:         toCategoryResponse(c),
	}
}

func toProductListItem(p *entity.Product) dto.ProductListItem {
	return dto.ProductListItem{
		ID:               p.ID,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		SKU:              p.SKU,
		Price:            dto.NewMoney(p.Price),
		SalePrice:        dto.MoneyPtr(p.SalePrice),
		EffectivePrice:   dto.NewMoney(p.EffectivePrice()),
		StockQuantity:    p.StockQuantity,
		IsInStock:        p.IsInStock(),
		IsLowStock:       p.IsLowStock(),
		IsFeatured:       p.IsFeatured,
		ImageURL:         p.ImageURL,
		ThumbnailURL:     p.ThumbnailURL,
		CategoryID:       p.CategoryID,
		CreatedAt:        p.CreatedAt,
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalog-service/internal/domain"
	"github.com/jhoicas/catalog-service/internal/domain/entity"
	"github.com/jhoicas/catalog-service/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, short_description, sku, category_id,
	price, cost_price, sale_price, stock_quantity, min_stock_level, max_stock_level,
	is_active, is_featured, is_digital, image_url, thumbnail_url, gallery_images,
	weight, dimensions, tags, meta_title, meta_description, slug, created_at, updated_at`

// sortColumns lista blanca de columnas para ORDER BY (nunca se interpola entrada del cliente).
var sortColumns = map[string]string{
	repository.SortByName:          "name",
	repository.SortByPrice:         "price",
	repository.SortByCreatedAt:     "created_at",
	repository.SortByUpdatedAt:     "updated_at",
	repository.SortByStockQuantity: "stock_quantity",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.ShortDescription, p.SKU, p.CategoryID,
		p.Price, p.CostPrice, p.SalePrice, p.StockQuantity, p.MinStockLevel, p.MaxStockLevel,
		p.IsActive, p.IsFeatured, p.IsDigital, p.ImageURL, p.ThumbnailURL, p.GalleryImages,
		p.Weight, p.Dimensions, p.Tags, p.MetaTitle, p.MetaDescription, p.Slug, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapProductWriteErr("insert product", err)
	}
	return nil
}

// GetByID retorna nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU retorna nil, nil si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// GetByIDForUpdate bloquea la fila hasta el fin de la transacción. Solo tiene sentido dentro de TxRunner.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update reemplaza los campos editables salvo stock_quantity, que solo cambia por UpdateStock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET
			name = $2, description = $3, short_description = $4, sku = $5, category_id = $6,
			price = $7, cost_price = $8, sale_price = $9, min_stock_level = $10, max_stock_level = $11,
			is_active = $12, is_featured = $13, is_digital = $14, image_url = $15, thumbnail_url = $16,
			gallery_images = $17, weight = $18, dimensions = $19, tags = $20, meta_title = $21,
			meta_description = $22, slug = $23, updated_at = $24
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.ShortDescription, p.SKU, p.CategoryID,
		p.Price, p.CostPrice, p.SalePrice, p.MinStockLevel, p.MaxStockLevel,
		p.IsActive, p.IsFeatured, p.IsDigital, p.ImageURL, p.ThumbnailURL,
		p.GalleryImages, p.Weight, p.Dimensions, p.Tags, p.MetaTitle,
		p.MetaDescription, p.Slug, p.UpdatedAt,
	)
	if err != nil {
		return mapProductWriteErr("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija la cantidad en stock.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, quantity int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List aplica filtros (AND), orden y paginación; retorna la página y el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where, args := productWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		productColumns, where, col, dir, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return list, total, nil
}

// Delete elimina un producto por ID. ErrNotFound si no existe.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// likeEscaper trata %, _ y \ del término de búsqueda como literales.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// productWhere construye la cláusula WHERE con placeholders posicionales.
func productWhere(f repository.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ActiveOnly {
		conds = append(conds, "is_active = TRUE")
	}
	if f.CategoryID != nil {
		add("category_id = $%d", *f.CategoryID)
	}
	if f.Search != nil && *f.Search != "" {
		add(`(name ILIKE $%[1]d ESCAPE '\' OR description ILIKE $%[1]d ESCAPE '\'`+
			` OR short_description ILIKE $%[1]d ESCAPE '\' OR sku ILIKE $%[1]d ESCAPE '\')`,
			"%"+likeEscaper.Replace(*f.Search)+"%")
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if f.InStockOnly {
		conds = append(conds, "stock_quantity > 0")
	}
	if f.FeaturedOnly {
		conds = append(conds, "is_featured = TRUE")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.ShortDescription, &p.SKU, &p.CategoryID,
		&p.Price, &p.CostPrice, &p.SalePrice, &p.StockQuantity, &p.MinStockLevel, &p.MaxStockLevel,
		&p.IsActive, &p.IsFeatured, &p.IsDigital, &p.ImageURL, &p.ThumbnailURL, &p.GalleryImages,
		&p.Weight, &p.Dimensions, &p.Tags, &p.MetaTitle, &p.MetaDescription, &p.Slug, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func mapProductWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.ErrCategoryNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

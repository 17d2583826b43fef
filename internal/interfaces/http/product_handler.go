package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-service/internal/application/dto"
	"github.com/jhoicas/catalog-service/internal/application/usecase"
	"github.com/jhoicas/catalog-service/internal/domain"
)

// ProductHandler maneja las peticiones HTTP de productos.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        page           query  int     false  "Página (1-indexada)"  default(1)
// @Param        size           query  int     false  "Tamaño de página"     default(20)
// @Param        category_id    query  string  false  "Filtrar por categoría"
// @Param        search         query  string  false  "Texto en nombre, descripción o SKU"
// @Param        min_price      query  number  false  "Precio mínimo"
// @Param        max_price      query  number  false  "Precio máximo"
// @Param        in_stock_only  query  bool    false  "Solo con stock"
// @Param        featured_only  query  bool    false  "Solo destacados"
// @Param        active_only    query  bool    false  "Solo activos"  default(true)
// @Param        sort_by        query  string  false  "name | price | created_at | updated_at | stock_quantity"
// @Param        sort_order     query  string  false  "asc | desc"
// @Success      200  {object}  dto.ProductPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /products/ [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	params, err := parseProductListParams(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByCategory godoc
// @Summary      Productos de una categoría
// @Tags         products
// @Produce      json
// @Param        category_id  path   string  true   "ID de la categoría"
// @Param        page         query  int     false  "Página"  default(1)
// @Param        size         query  int     false  "Tamaño"  default(20)
// @Success      200  {object}  dto.ProductPage
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/category/{category_id} [get]
func (h *ProductHandler) ListByCategory(c *fiber.Ctx) error {
	params, err := parseProductListParams(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListByCategory(c.UserContext(), c.Params("category_id"), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /products/ [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Producto eliminado correctamente"})
}

// UpdateStock godoc
// @Summary      Ajustar stock
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID del producto"
// @Param        quantity   query  int     true   "Cantidad (>= 0)"
// @Param        operation  query  string  false  "set | add | subtract"  default(set)
// @Success      200  {object}  dto.StockUpdateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id}/stock [patch]
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	quantity, err := queryInt(c, "quantity")
	if err != nil {
		return respondError(c, err)
	}
	if quantity == nil {
		return respondError(c, fmt.Errorf("%w: quantity es requerido", domain.ErrInvalidInput))
	}
	out, err := h.uc.AdjustStock(c.UserContext(), c.Params("id"), *quantity, c.Query("operation"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func parseProductListParams(c *fiber.Ctx) (dto.ProductListParams, error) {
	var (
		p   dto.ProductListParams
		err error
	)
	page, err := queryInt(c, "page")
	if err != nil {
		return p, err
	}
	size, err := queryInt(c, "size")
	if err != nil {
		return p, err
	}
	// Explícitos fuera de rango se rechazan; 0 en el DTO significa "no enviado".
	if page != nil {
		if *page < 1 {
			return p, fmt.Errorf("%w: page debe ser >= 1", domain.ErrInvalidInput)
		}
		p.Page = *page
	}
	if size != nil {
		if *size < 1 {
			return p, fmt.Errorf("%w: size debe ser >= 1", domain.ErrInvalidInput)
		}
		p.Size = *size
	}
	p.CategoryID = queryString(c, "category_id")
	p.Search = queryString(c, "search")
	p.SortBy = queryString(c, "sort_by")
	p.SortOrder = queryString(c, "sort_order")
	if p.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return p, err
	}
	if p.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return p, err
	}
	if p.InStockOnly, err = queryBool(c, "in_stock_only"); err != nil {
		return p, err
	}
	if p.FeaturedOnly, err = queryBool(c, "featured_only"); err != nil {
		return p, err
	}
	if p.ActiveOnly, err = queryBool(c, "active_only"); err != nil {
		return p, err
	}
	return p, nil
}

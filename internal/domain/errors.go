package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Catálogo
	ErrCategoryNotFound = errors.New("categoría no encontrada")
	ErrParentNotFound   = errors.New("categoría padre no encontrada")
	ErrSelfParent       = errors.New("una categoría no puede ser su propio padre")
	ErrHasChildren      = errors.New("la categoría tiene subcategorías")
	ErrCategoryInUse    = errors.New("la categoría tiene productos asociados")
	ErrInvalidPrice     = errors.New("el precio de oferta debe ser menor al precio regular")
	ErrInvalidStockBand = errors.New("el stock máximo debe ser mayor al stock mínimo")
)

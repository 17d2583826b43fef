package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría. El ID lo define el cliente.
type CreateCategoryRequest struct {
	ID          string  `json:"id" validate:"required,min=1,max=50"`
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id" validate:"omitempty,max=50"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   int     `json:"sort_order"`
}

// UpdateCategoryRequest actualización parcial. parent_id "" deja la categoría como raíz.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id" validate:"omitempty,max=50"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ParentID    *string   `json:"parent_id"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryTreeNode categoría con sus subcategorías (recursivo).
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

package entity

import "time"

// Category representa una categoría de productos (jerárquica opcional).
// El ID lo asigna el cliente; no se genera.
type Category struct {
	ID          string
	Name        string // único
	Description *string
	ParentID    *string // nil si es raíz
	IsActive    bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot indica si la categoría no tiene padre.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

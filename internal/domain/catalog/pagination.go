package catalog

// Page metadatos de paginación 1-indexada.
type Page struct {
	Total   int
	Page    int
	Size    int
	Pages   int
	HasNext bool
	HasPrev bool
}

// Paginate calcula páginas totales y navegación. pages = ceil(total/size).
func Paginate(total, page, size int) Page {
	if size <= 0 {
		size = 1
	}
	if page <= 0 {
		page = 1
	}
	pages := (total + size - 1) / size
	return Page{
		Total:   total,
		Page:    page,
		Size:    size,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}

// Offset posición inicial (0-indexada) para LIMIT/OFFSET.
func Offset(page, size int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * size
}

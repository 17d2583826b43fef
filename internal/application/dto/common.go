package dto

// PageRequest paginación 1-indexada para listados.
type PageRequest struct {
	Page int `query:"page" validate:"min=1"`
	Size int `query:"size" validate:"min=1,max=100"`
}

// DefaultPage aplica valores por defecto si Page/Size son cero.
func (p *PageRequest) DefaultPage(defaultSize int) {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Size == 0 {
		p.Size = defaultSize
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Size    int  `json:"size"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse confirmación simple (p.ej. tras un DELETE).
type MessageResponse struct {
	Message string `json:"message"`
}

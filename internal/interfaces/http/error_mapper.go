package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-service/internal/application/dto"
	"github.com/jhoicas/catalog-service/internal/domain"
)

// LocalError guarda el error interno de la petición para el log de acceso.
const LocalError = "request_error"

// errorMapping relación error de dominio -> status y código. El orden importa:
// se toma la primera coincidencia con errors.Is.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidPrice, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidStockBand, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrCategoryNotFound, fiber.StatusBadRequest, "CATEGORY_NOT_FOUND"},
	{domain.ErrParentNotFound, fiber.StatusBadRequest, "PARENT_NOT_FOUND"},
	{domain.ErrSelfParent, fiber.StatusBadRequest, "INVALID_PARENT"},
	{domain.ErrHasChildren, fiber.StatusBadRequest, "HAS_CHILDREN"},
	{domain.ErrCategoryInUse, fiber.StatusBadRequest, "CATEGORY_IN_USE"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// mapError traduce err a status HTTP y cuerpo. Los errores no reconocidos son 500
// con mensaje genérico; el detalle solo va al log.
func mapError(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()}
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
}

// respondError escribe la respuesta de error. Los 500 dejan el error en Locals
// para que el middleware de log lo registre.
func respondError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		c.Locals(LocalError, err)
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler manejador global de Fiber para errores no capturados por los handlers
// (rutas inexistentes, panics recuperados, body demasiado grande).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INTERNAL"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "BODY_TOO_LARGE"
		case fiber.StatusBadRequest:
			code = "BAD_REQUEST"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
	}
	return respondError(c, err)
}

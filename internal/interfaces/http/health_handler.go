package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-service/internal/application/usecase"
)

// HealthHandler sondas de vida, disponibilidad y estado detallado.
type HealthHandler struct {
	uc *usecase.HealthUseCase
}

// NewHealthHandler construye el handler.
func NewHealthHandler(uc *usecase.HealthUseCase) *HealthHandler {
	return &HealthHandler{uc: uc}
}

// Basic godoc
// @Summary  Estado del servicio
// @Tags     health
// @Produce  json
// @Success  200  {object}  dto.HealthResponse
// @Router   /health/ [get]
func (h *HealthHandler) Basic(c *fiber.Ctx) error {
	return c.JSON(h.uc.Basic())
}

// Live godoc
// @Summary  Liveness
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health/live [get]
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready godoc
// @Summary  Readiness: base de datos y caché alcanzables
// @Tags     health
// @Produce  json
// @Success  200  {object}  dto.ReadinessResponse
// @Failure  503  {object}  dto.ReadinessResponse
// @Router   /health/ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	out, ok := h.uc.Ready(c.UserContext())
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}

// Detailed godoc
// @Summary  Estado de cada dependencia
// @Tags     health
// @Produce  json
// @Success  200  {object}  dto.DetailedHealthResponse
// @Router   /health/detailed [get]
func (h *HealthHandler) Detailed(c *fiber.Ctx) error {
	return c.JSON(h.uc.Detailed(c.UserContext()))
}

package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/catalog-service/pkg/logger"
)

// LocalRequestID clave en Locals del id de la petición.
const LocalRequestID = "request_id"

// RequestObserver registra métricas por petición (lo implementa *metrics.Metrics).
type RequestObserver interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
}

// RequestLogger asigna X-Request-ID (se respeta el recibido), mide la duración,
// la expone en X-Process-Time y registra una línea por petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(fiber.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()[:8]
		}
		c.Locals(LocalRequestID, reqID)
		c.Set(fiber.HeaderXRequestID, reqID)

		settle(c, c.Next())

		elapsed := time.Since(start)
		c.Set("X-Process-Time", strconv.FormatFloat(elapsed.Seconds(), 'f', 4, 64))

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
			if cause, ok := c.Locals(LocalError).(error); ok {
				ev = ev.Err(cause)
			}
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("petición procesada")
		return nil
	}
}

// Metrics observa cada petición con la plantilla de ruta (/products/:id) para
// acotar la cardinalidad de etiquetas.
func Metrics(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		settle(c, c.Next())
		path := c.Route().Path
		if path == "" || (path == "/" && c.Path() != "/") {
			path = "unmatched"
		}
		obs.ObserveRequest(c.Method(), path, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}

// settle pasa err por el ErrorHandler para que el status final quede fijado
// antes de medir o registrar.
func settle(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if herr := c.App().ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}

// StoreTimeout fija un deadline en el contexto de usuario de la petición; los casos
// de uso lo propagan a las llamadas al store.
func StoreTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

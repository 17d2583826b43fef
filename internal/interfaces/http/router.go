package http

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/catalog-service/internal/application/usecase"
	"github.com/jhoicas/catalog-service/pkg/logger"
)

// MetricsProvider colector HTTP más su endpoint de exposición.
type MetricsProvider interface {
	RequestObserver
	Handler() http.Handler
}

// ServiceInfo datos del banner raíz.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	HealthUC   *usecase.HealthUseCase
	Metrics    MetricsProvider // opcional
	Log        *logger.Logger

	Service        ServiceInfo
	AllowedOrigins []string
	StoreTimeout   time.Duration

	// Si JWTSecret está vacío las escrituras quedan abiertas.
	JWTSecret string
	JWTIssuer string

	// DocsFile swagger.json servido en /docs; vacío lo desactiva.
	DocsFile string
}

// NewApp crea la aplicación Fiber con el manejador de errores del servicio.
// Immutable porque los parámetros terminan en claves de caché y logs.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		Immutable:    true,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
}

// Router registra middleware y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Use(RequestLogger(log))
	if deps.Metrics != nil {
		app.Use(Metrics(deps.Metrics))
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: allowOrigins(deps.AllowedOrigins)}))
	app.Use(compress.New())

	if deps.DocsFile != "" {
		if _, err := os.Stat(deps.DocsFile); err == nil {
			// Swagger UI: http://localhost:<port>/docs
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.DocsFile,
				Path:     "docs",
				Title:    deps.Service.Name,
			}))
		} else {
			log.Warn().Str("file", deps.DocsFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     deps.Service.Name,
			"version":     deps.Service.Version,
			"environment": deps.Service.Environment,
			"docs":        "/docs",
			"health":      "/health",
		})
	})

	// Health (sin timeout de store: cada sonda acota el suyo)
	health := app.Group("/health")
	healthHandler := NewHealthHandler(deps.HealthUC)
	health.Get("/", healthHandler.Basic)
	health.Get("/live", healthHandler.Live)
	health.Get("/ready", healthHandler.Ready)
	health.Get("/detailed", healthHandler.Detailed)
	if deps.Metrics != nil {
		health.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	var mw []fiber.Handler
	if deps.StoreTimeout > 0 {
		mw = append(mw, StoreTimeout(deps.StoreTimeout))
	}
	// Escrituras: JWT + rol admin cuando hay secreto configurado.
	write := func(h fiber.Handler) []fiber.Handler {
		if deps.JWTSecret == "" {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{AuthMiddleware(deps.JWTSecret, deps.JWTIssuer), RequireRole(RoleAdmin), h}
	}

	// Categories
	categories := app.Group("/categories", mw...)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/tree", categoryHandler.Tree)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", write(categoryHandler.Create)...)
	categories.Put("/:id", write(categoryHandler.Update)...)
	categories.Delete("/:id", write(categoryHandler.Delete)...)

	// Products
	products := app.Group("/products", mw...)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/category/:category_id", productHandler.ListByCategory)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", write(productHandler.Create)...)
	products.Put("/:id", write(productHandler.Update)...)
	products.Delete("/:id", write(productHandler.Delete)...)
	products.Patch("/:id/stock", write(productHandler.UpdateStock)...)
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}

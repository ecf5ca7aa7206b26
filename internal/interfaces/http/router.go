package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/concesionario-api/internal/application/inventory"
	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/metrics"
	"github.com/jhoicas/concesionario-api/pkg/jwt"
	"github.com/jhoicas/concesionario-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC *inventory.MovementUseCase
	ReportUC   *inventory.ReportUseCase
	ReturnUC   *sales.ReturnUseCase
	JWTSecret  string
	JWTIssuer  string
	Logger     *logger.Logger
	Metrics    *metrics.Metrics // nil = sin métricas
}

// Router registra las rutas de la API bajo /api (todas protegidas con Bearer Token).
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	errs := errorWriter{log: log.Component("http"), metrics: deps.Metrics}
	val := newRequestValidator()

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	anyRole := RequireRole()
	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse)
	seller := RequireRole(jwt.RoleAdmin, jwt.RoleSeller)

	// Movimientos
	movementHandler := NewMovementHandler(deps.MovementUC, val, errs)
	movements := api.Group("/movements")
	movements.Post("/", warehouse, movementHandler.Create)
	movements.Get("/", anyRole, movementHandler.List)
	movements.Get("/:id", anyRole, movementHandler.Get)
	movements.Put("/:id", warehouse, movementHandler.Receive)
	movements.Put("/:id/details", warehouse, movementHandler.ReplaceDetails)
	movements.Patch("/:id/details/:detailId", warehouse, movementHandler.SetInspection)
	movements.Delete("/:id", warehouse, movementHandler.Delete)

	// Devoluciones de venta
	returnHandler := NewReturnHandler(deps.ReturnUC, val, errs)
	returns := api.Group("/returns")
	returns.Post("/", seller, returnHandler.Create)
	returns.Get("/", anyRole, returnHandler.List)
	returns.Get("/:id", anyRole, returnHandler.Get)

	// Reportes de inventario
	inventoryHandler := NewInventoryHandler(deps.ReportUC, errs)
	inv := api.Group("/inventory", anyRole)
	inv.Get("/count-by-model-color-status", inventoryHandler.CountByModelColorStatus)
	inv.Get("/count-by-location", inventoryHandler.CountByLocation)
}

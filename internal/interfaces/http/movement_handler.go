package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/application/inventory"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/metrics"
)

// MovementHandler maneja las peticiones HTTP del motor de movimientos (protegido).
type MovementHandler struct {
	uc      *inventory.MovementUseCase
	val     *requestValidator
	errs    errorWriter
	metrics *metrics.Metrics
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase, val *requestValidator, errs errorWriter) *MovementHandler {
	return &MovementHandler{uc: uc, val: val, errs: errs, metrics: errs.metrics}
}

// pathID lee un parámetro de ruta que debe ser UUID.
func pathID(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "identificador inválido",
		Fields:  map[string]string{name: "uuid"},
	})
}

// Create godoc
// @Summary      Crear movimiento (ENTRY, EXIT o TRANSFER)
// @Description  TRANSFER nace IN_TRANSIT y reserva los vehículos; ENTRY y EXIT se aplican de inmediato.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMovementRequest  true  "movimiento y líneas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if ok, err := h.val.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	h.metrics.MovementCreated(out.MovementType)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "ENTRY | EXIT | TRANSFER | RETURN"
// @Param        status      query  string  false  "IN_TRANSIT | COMPLETED"
// @Param        locationId  query  string  false  "origen o destino (UUID)"
// @Param        limit       query  int     false  "máx. 100 (default 20)"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	if ok, err := h.val.check(c, &q); !ok {
		return err
	}
	page := q.Page()
	list, err := h.uc.ListMovements(c.UserContext(), repository.MovementFilter{
		Type:       entity.MovementType(q.Type),
		Status:     entity.MovementStatus(q.Status),
		LocationID: q.LocationID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return h.errs.write(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *dto.NewMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// Get godoc
// @Summary      Obtener movimiento con sus líneas
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	m, err := h.uc.GetMovement(c.UserContext(), id)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.NewMovementResponse(m))
}

// Receive godoc
// @Summary      Recibir traslado
// @Description  Completa un TRANSFER IN_TRANSIT: vehículos AVAILABLE en destino y stock movido, en una transacción.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID del movimiento"
// @Param        body  body      dto.ReceiveMovementRequest  true  "datos de recepción"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *MovementHandler) Receive(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var in dto.ReceiveMovementRequest
	if ok, err := h.val.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.ReceiveMovementFromRequest(c.UserContext(), id, in)
	if err != nil {
		return h.errs.write(c, err)
	}
	h.metrics.MovementReceived()
	return c.JSON(out)
}

// ReplaceDetails godoc
// @Summary      Reemplazar líneas de un traslado en tránsito
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "ID del movimiento"
// @Param        body  body      dto.ReplaceDetailsRequest  true  "nuevo conjunto de líneas"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/details [put]
func (h *MovementHandler) ReplaceDetails(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var in dto.ReplaceDetailsRequest
	if ok, err := h.val.bind(c, &in); !ok {
		return err
	}
	m, err := h.uc.ReplaceMovementDetails(c.UserContext(), id, inventory.DetailsFromRequest(in.Details))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.NewMovementResponse(m))
}

// SetInspection godoc
// @Summary      Registrar inspección de una línea
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path      string                 true  "ID del movimiento"
// @Param        detailId  path      string                 true  "ID de la línea"
// @Param        body      body      dto.InspectionRequest  true  "PENDING | PASSED | FAILED"
// @Success      200       {object}  dto.MovementResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Failure      409       {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/details/{detailId} [patch]
func (h *MovementHandler) SetInspection(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	detailID, ok := pathID(c, "detailId")
	if !ok {
		return invalidID(c, "detailId")
	}
	var in dto.InspectionRequest
	if ok, err := h.val.bind(c, &in); !ok {
		return err
	}
	m, err := h.uc.SetInspectionStatus(c.UserContext(), id, detailID, entity.InspectionStatus(in.InspectionStatus))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.NewMovementResponse(m))
}

// Delete godoc
// @Summary      Eliminar traslado en tránsito
// @Description  Libera la reserva de los vehículos. Un movimiento COMPLETED no se elimina (409).
// @Tags         movements
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.uc.DeleteMovement(c.UserContext(), id); err != nil {
		return h.errs.write(c, err)
	}
	h.metrics.MovementDeleted()
	return c.SendStatus(fiber.StatusNoContent)
}

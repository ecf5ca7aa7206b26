package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/concesionario-api/internal/application/inventory"
)

// InventoryHandler reportes de conteo de vehículos (protegido, solo lectura).
type InventoryHandler struct {
	uc   *inventory.ReportUseCase
	errs errorWriter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.ReportUseCase, errs errorWriter) *InventoryHandler {
	return &InventoryHandler{uc: uc, errs: errs}
}

// CountByModelColorStatus godoc
// @Summary      Conteo de vehículos por modelo, color y estado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        locationId  query  string  false  "Filtrar por ubicación (UUID). Vacío = todas."
// @Param        status      query  string  false  "Filtrar por estado: código (DAMAGED) o etiqueta (Dañado)"
// @Success      200  {array}   dto.VehicleCountDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/count-by-model-color-status [get]
func (h *InventoryHandler) CountByModelColorStatus(c *fiber.Ctx) error {
	locationID := c.Query("locationId")
	if locationID != "" {
		if _, err := uuid.Parse(locationID); err != nil {
			return invalidID(c, "locationId")
		}
	}
	rows, err := h.uc.CountByModelColorStatus(c.UserContext(), locationID, c.Query("status"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(rows)
}

// CountByLocation godoc
// @Summary      Conteo de vehículos por ubicación y estado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationCountDTO
// @Router       /api/inventory/count-by-location [get]
func (h *InventoryHandler) CountByLocation(c *fiber.Ctx) error {
	rows, err := h.uc.CountByLocation(c.UserContext())
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(rows)
}

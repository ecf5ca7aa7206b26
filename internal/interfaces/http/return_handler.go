package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/metrics"
)

// ReturnHandler maneja las devoluciones de venta (protegido).
type ReturnHandler struct {
	uc      *sales.ReturnUseCase
	val     *requestValidator
	errs    errorWriter
	metrics *metrics.Metrics
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *sales.ReturnUseCase, val *requestValidator, errs errorWriter) *ReturnHandler {
	return &ReturnHandler{uc: uc, val: val, errs: errs, metrics: errs.metrics}
}

// Create godoc
// @Summary      Registrar devolución de venta
// @Description  Crea la devolución y su movimiento RETURN (orderReference = ID de la devolución) en una transacción.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSalesReturnRequest  true  "venta original y líneas a devolver"
// @Success      201   {object}  dto.SalesReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesReturnRequest
	if ok, err := h.val.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateSalesReturnFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	h.metrics.ReturnCreated()
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar devoluciones
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        saleId  query  string  false  "venta original (UUID)"
// @Param        limit   query  int     false  "máx. 100 (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.SalesReturnListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/returns [get]
func (h *ReturnHandler) List(c *fiber.Ctx) error {
	var q dto.ReturnListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	if ok, err := h.val.check(c, &q); !ok {
		return err
	}
	page := q.Page()
	items, err := h.uc.ListSalesReturns(c.UserContext(), repository.ReturnFilter{SaleID: q.SaleID, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.SalesReturnListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// Get godoc
// @Summary      Obtener devolución con venta original y movimiento compensatorio
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la devolución"
// @Success      200  {object}  dto.SalesReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	out, err := h.uc.GetSalesReturn(c.UserContext(), id)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
